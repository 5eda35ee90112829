package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentileNearestRank(t *testing.T) {
	t.Parallel()

	values := []float64{5, 1, 4, 2, 3}

	tests := []struct {
		q    float64
		want float64
	}{
		{q: 0, want: 1},
		{q: 0.5, want: 3},
		{q: 0.9, want: 5},
		{q: 0.6, want: 3},
		{q: 1, want: 5},
		{q: 2, want: 5},
	}
	for _, tc := range tests {
		got, ok := Percentile(values, tc.q)
		require.True(t, ok)
		assert.Equal(t, tc.want, got, "q=%v", tc.q)
	}

	_, ok := Percentile(nil, 0.5)
	assert.False(t, ok)
}

func TestMetricsTruncatesToNewestHalf(t *testing.T) {
	t.Parallel()

	m := NewMetrics(10, fixedClock{now: time.Now()})
	for i := 1; i <= 11; i++ {
		m.ObserveInference(time.Duration(i)*time.Millisecond, false)
		m.ObserveTopScore(float64(i))
	}

	snapshot := m.Snapshot()
	assert.Equal(t, int64(11), snapshot.InferenceCount)
	assert.Equal(t, 5, snapshot.Latency.Count)
	require.NotNil(t, snapshot.Latency.Avg)
	assert.InDelta(t, 9.0, *snapshot.Latency.Avg, 1e-9)
	assert.Equal(t, 5, snapshot.TopScore.Count)
}

func TestMetricsEmptySnapshotHasNullStats(t *testing.T) {
	t.Parallel()

	snapshot := NewMetrics(0, nil).Snapshot()

	assert.Zero(t, snapshot.Latency.Count)
	assert.Nil(t, snapshot.Latency.Avg)
	assert.Nil(t, snapshot.Latency.P99)
	assert.Contains(t, snapshot.TopScoreRecent, "60s")
	assert.Contains(t, snapshot.TopScoreRecent, "300s")
}

func TestMetricsRecentWindows(t *testing.T) {
	t.Parallel()

	clock := &manualClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMetrics(100, clock)

	m.ObserveTopScore(0.2)
	clock.Advance(4 * time.Minute)
	m.ObserveTopScore(0.6)
	clock.Advance(30 * time.Second)
	m.ObserveTopScore(0.8)
	m.ObserveInference(time.Second, true)

	snapshot := m.Snapshot()
	assert.Equal(t, 2, snapshot.TopScoreRecent["60s"].Count)
	assert.Equal(t, 3, snapshot.TopScoreRecent["300s"].Count)
	assert.Equal(t, int64(1), snapshot.ErrorCount)
	assert.InDelta(t, 270, snapshot.UptimeSec, 1e-9)
}
