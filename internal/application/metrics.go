package application

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/bnema/sentra-emo/internal/ports"
)

const DefaultMetricsCapacity = 2000

var recentWindows = []struct {
	name   string
	window time.Duration
}{
	{name: "60s", window: time.Minute},
	{name: "300s", window: 5 * time.Minute},
}

type timedSample struct {
	at    time.Time
	value float64
}

// Metrics keeps bounded latency and top-score buffers. Once a buffer grows past capacity only
// its newest half is kept.
type Metrics struct {
	capacity int
	clock    ports.Clock
	started  time.Time

	mu         sync.Mutex
	inferences int64
	errors     int64
	latencies  []float64
	topScores  []timedSample
}

func NewMetrics(capacity int, clock ports.Clock) *Metrics {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if capacity < 2 {
		capacity = DefaultMetricsCapacity
	}

	return &Metrics{capacity: capacity, clock: clock, started: clock.Now()}
}

// ObserveInference records one analyzed text and its latency. Failed inferences also count
// as errors.
func (m *Metrics) ObserveInference(latency time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inferences++
	if failed {
		m.errors++
	}
	m.latencies = append(m.latencies, float64(latency)/float64(time.Millisecond))
	if len(m.latencies) > m.capacity {
		m.latencies = append([]float64(nil), m.latencies[len(m.latencies)-m.capacity/2:]...)
	}
}

func (m *Metrics) ObserveTopScore(score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.topScores = append(m.topScores, timedSample{at: m.clock.Now(), value: score})
	if len(m.topScores) > m.capacity {
		m.topScores = append([]timedSample(nil), m.topScores[len(m.topScores)-m.capacity/2:]...)
	}
}

// Stats summarizes a sample set. Pointer fields are nil when there are no samples.
type Stats struct {
	Count int      `json:"count"`
	Avg   *float64 `json:"avg"`
	P50   *float64 `json:"p50"`
	P95   *float64 `json:"p95"`
	P99   *float64 `json:"p99"`
}

type MetricsSnapshot struct {
	UptimeSec      float64          `json:"uptime_sec"`
	InferenceCount int64            `json:"inference_count"`
	ErrorCount     int64            `json:"error_count"`
	Latency        Stats            `json:"inference_latency_ms"`
	TopScore       Stats            `json:"emotion_top1_score"`
	TopScoreRecent map[string]Stats `json:"emotion_top1_score_recent"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	now := m.clock.Now()
	inferences, errs := m.inferences, m.errors
	latencies := append([]float64(nil), m.latencies...)
	scores := append([]timedSample(nil), m.topScores...)
	m.mu.Unlock()

	values := make([]float64, 0, len(scores))
	for _, s := range scores {
		values = append(values, s.value)
	}

	snapshot := MetricsSnapshot{
		UptimeSec:      now.Sub(m.started).Seconds(),
		InferenceCount: inferences,
		ErrorCount:     errs,
		Latency:        summarize(latencies),
		TopScore:       summarize(values),
		TopScoreRecent: make(map[string]Stats, len(recentWindows)),
	}
	for _, w := range recentWindows {
		recent := make([]float64, 0, len(scores))
		for _, s := range scores {
			if now.Sub(s.at) <= w.window {
				recent = append(recent, s.value)
			}
		}
		snapshot.TopScoreRecent[w.name] = summarize(recent)
	}

	return snapshot
}

func summarize(values []float64) Stats {
	stats := Stats{Count: len(values)}
	if len(values) == 0 {
		return stats
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	avg := sum / float64(len(sorted))
	stats.Avg = &avg
	stats.P50 = nearestRank(sorted, 0.50)
	stats.P95 = nearestRank(sorted, 0.95)
	stats.P99 = nearestRank(sorted, 0.99)

	return stats
}

// Percentile returns the nearest-rank percentile of values without interpolation.
func Percentile(values []float64, q float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return *nearestRank(sorted, q), true
}

func nearestRank(sorted []float64, q float64) *float64 {
	n := len(sorted)
	idx := int(math.Round(q * float64(n-1)))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	v := sorted[idx]
	return &v
}
