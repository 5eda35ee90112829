package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	DefaultFastHalfLife = 900 * time.Second
	DefaultSlowHalfLife = 7200 * time.Second
	DefaultAdaptGain    = 2.0
	DefaultTopEmotions  = 6
	DefaultExcerptChars = 80

	minTrackedEmotions = 32
)

type UserState struct {
	UserID         string             `json:"userid"`
	Username       string             `json:"username,omitempty"`
	FastEMA        VAD                `json:"fast_ema"`
	SlowEMA        VAD                `json:"slow_ema"`
	TopEmotions    []LabelScore       `json:"top_emotions"`
	EmotionWeights map[string]float64 `json:"-"`
	LastUpdate     time.Time          `json:"last_update"`
	SampleCount    int                `json:"sample_count"`
	LastSentiment  string             `json:"last_sentiment,omitempty"`
	LastStress     StressResult       `json:"last_stress"`
}

// TrackerConfig holds the dual-EMA parameters.
type TrackerConfig struct {
	FastHalfLife time.Duration
	SlowHalfLife time.Duration
	AdaptGain    float64
	TopK         int
}

func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		FastHalfLife: DefaultFastHalfLife,
		SlowHalfLife: DefaultSlowHalfLife,
		AdaptGain:    DefaultAdaptGain,
		TopK:         DefaultTopEmotions,
	}
}

// Observation is one analysis result folded into a user's state.
type Observation struct {
	Username  string
	VAD       VAD
	Emotions  Distribution
	Sentiment string
	Stress    StressResult
	At        time.Time
}

func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: userid is required", ErrValidation)
	}
	return nil
}

// NewUserState builds the state of a user on its first observation.
func NewUserState(userID string, obs Observation, cfg TrackerConfig) UserState {
	state := UserState{
		UserID:         userID,
		Username:       strings.TrimSpace(obs.Username),
		FastEMA:        obs.VAD,
		SlowEMA:        obs.VAD,
		EmotionWeights: map[string]float64{},
		LastUpdate:     obs.At,
		SampleCount:    1,
		LastSentiment:  obs.Sentiment,
		LastStress:     obs.Stress,
	}
	state.accumulate(obs.Emotions, 1)
	state.rankEmotions(cfg.TopK)
	return state
}

// Apply folds obs into the state. The slow EMA decays by its half-life alone while the fast EMA
// reacts harder to samples that are far from the slow baseline.
func (s *UserState) Apply(obs Observation, cfg TrackerConfig) {
	if s == nil {
		return
	}
	if s.SampleCount == 0 {
		*s = NewUserState(s.UserID, obs, cfg)
		return
	}

	elapsed := obs.At.Sub(s.LastUpdate).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	slowAlpha := DecayAlpha(elapsed, cfg.SlowHalfLife.Seconds())
	fastAlpha := AdaptiveAlpha(
		DecayAlpha(elapsed, cfg.FastHalfLife.Seconds()),
		cfg.AdaptGain,
		Deviation(obs.VAD, s.SlowEMA),
	)

	s.FastEMA = Blend(s.FastEMA, obs.VAD, fastAlpha)
	s.SlowEMA = Blend(s.SlowEMA, obs.VAD, slowAlpha)

	s.accumulate(obs.Emotions, DecayFactor(elapsed, cfg.SlowHalfLife.Seconds()))
	s.rankEmotions(cfg.TopK)

	if name := strings.TrimSpace(obs.Username); name != "" {
		s.Username = name
	}
	if obs.At.After(s.LastUpdate) {
		s.LastUpdate = obs.At
	}
	s.SampleCount++
	s.LastSentiment = obs.Sentiment
	s.LastStress = obs.Stress
}

func (s *UserState) accumulate(emotions Distribution, decay float64) {
	if s.EmotionWeights == nil {
		s.EmotionWeights = map[string]float64{}
	}
	for label, weight := range s.EmotionWeights {
		s.EmotionWeights[label] = weight * decay
	}
	for _, ls := range emotions {
		if ls.Score <= 0 {
			continue
		}
		s.EmotionWeights[ls.Label] += ls.Score
	}
}

// rankEmotions prunes the accumulator and refreshes TopEmotions with shares of the total weight.
func (s *UserState) rankEmotions(k int) {
	if k <= 0 {
		k = DefaultTopEmotions
	}

	ranked := make([]LabelScore, 0, len(s.EmotionWeights))
	total := 0.0
	for label, weight := range s.EmotionWeights {
		ranked = append(ranked, LabelScore{Label: label, Score: weight})
		total += weight
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score == ranked[j].Score {
			return ranked[i].Label < ranked[j].Label
		}
		return ranked[i].Score > ranked[j].Score
	})

	keep := k * 4
	if keep < minTrackedEmotions {
		keep = minTrackedEmotions
	}
	if len(ranked) > keep {
		for _, dropped := range ranked[keep:] {
			delete(s.EmotionWeights, dropped.Label)
		}
		ranked = ranked[:keep]
	}

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	top := make([]LabelScore, 0, len(ranked))
	for _, ls := range ranked {
		share := 0.0
		if total > 0 {
			share = ls.Score / total
		}
		top = append(top, LabelScore{Label: ls.Label, Score: share})
	}
	s.TopEmotions = top
}

// EmotionEvent is an immutable record of one analyzed text.
type EmotionEvent struct {
	ID             string       `json:"id"`
	UserID         string       `json:"userid"`
	Timestamp      time.Time    `json:"ts"`
	TextExcerpt    string       `json:"text_excerpt"`
	TextHash       string       `json:"text_hash"`
	SentimentLabel string       `json:"sentiment"`
	VAD            VAD          `json:"vad"`
	Stress         StressResult `json:"stress"`
	Emotions       Distribution `json:"emotions"`
}

// EventQuery selects a slice of a user's event log. Zero bounds are open.
type EventQuery struct {
	Start time.Time
	End   time.Time
	Limit int
}

const DefaultEventLimit = 200

// Matches reports whether ts lies inside the query window, bounds inclusive.
func (q EventQuery) Matches(ts time.Time) bool {
	if !q.Start.IsZero() && ts.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && ts.After(q.End) {
		return false
	}
	return true
}

func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Excerpt cuts text to at most n runes after collapsing whitespace.
func Excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
