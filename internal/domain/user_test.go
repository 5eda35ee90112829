package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userEpoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewUserStateStartsBothEMAsAtSample(t *testing.T) {
	t.Parallel()

	sample := VAD{Valence: 0.7, Arousal: 0.4, Dominance: 0.6}
	state := NewUserState("u1", Observation{
		Username: " alice ",
		VAD:      sample,
		Emotions: Distribution{{Label: "joy", Score: 0.6}, {Label: "anger", Score: 0.4}},
		At:       userEpoch,
	}, DefaultTrackerConfig())

	assert.Equal(t, "u1", state.UserID)
	assert.Equal(t, "alice", state.Username)
	assert.Equal(t, sample, state.FastEMA)
	assert.Equal(t, sample, state.SlowEMA)
	assert.Equal(t, 1, state.SampleCount)
	assert.Equal(t, userEpoch, state.LastUpdate)
	require.Len(t, state.TopEmotions, 2)
	assert.Equal(t, "joy", state.TopEmotions[0].Label)
	assert.InDelta(t, 0.6, state.TopEmotions[0].Score, 1e-9)
}

func TestApplySlowEMAHalvesDistanceAfterOneHalfLife(t *testing.T) {
	t.Parallel()

	cfg := DefaultTrackerConfig()
	cfg.AdaptGain = 0
	start := VAD{Valence: 0.2, Arousal: 0.2, Dominance: 0.2}
	state := NewUserState("u1", Observation{VAD: start, At: userEpoch}, cfg)

	sample := VAD{Valence: 0.8, Arousal: 0.6, Dominance: 0.4}
	state.Apply(Observation{VAD: sample, At: userEpoch.Add(cfg.SlowHalfLife)}, cfg)

	assert.InDelta(t, Deviation(start, sample)/2, Deviation(state.SlowEMA, sample), 1e-12)
	assert.Equal(t, 2, state.SampleCount)
	assert.Equal(t, userEpoch.Add(cfg.SlowHalfLife), state.LastUpdate)
}

func TestApplyFastEMAReactsToDeviation(t *testing.T) {
	t.Parallel()

	cfg := DefaultTrackerConfig()
	start := VAD{Valence: 0.9, Arousal: 0.1, Dominance: 0.5}
	sample := VAD{Valence: 0.1, Arousal: 0.9, Dominance: 0.5}
	at := userEpoch.Add(cfg.FastHalfLife)

	adaptive := NewUserState("u1", Observation{VAD: start, At: userEpoch}, cfg)
	adaptive.Apply(Observation{VAD: sample, At: at}, cfg)

	plainCfg := cfg
	plainCfg.AdaptGain = 0
	plain := NewUserState("u1", Observation{VAD: start, At: userEpoch}, plainCfg)
	plain.Apply(Observation{VAD: sample, At: at}, plainCfg)

	assert.Less(t, Deviation(adaptive.FastEMA, sample), Deviation(plain.FastEMA, sample))
	assert.Equal(t, plain.SlowEMA, adaptive.SlowEMA)
}

func TestApplyClampsClockSkew(t *testing.T) {
	t.Parallel()

	cfg := DefaultTrackerConfig()
	start := VAD{Valence: 0.5, Arousal: 0.5, Dominance: 0.5}
	state := NewUserState("u1", Observation{VAD: start, At: userEpoch}, cfg)

	state.Apply(Observation{VAD: VAD{Valence: 1, Arousal: 1, Dominance: 1}, At: userEpoch.Add(-time.Hour)}, cfg)

	assert.Equal(t, start, state.FastEMA)
	assert.Equal(t, start, state.SlowEMA)
	assert.Equal(t, userEpoch, state.LastUpdate)
	assert.Equal(t, 2, state.SampleCount)
}

func TestApplyTopEmotionsDecay(t *testing.T) {
	t.Parallel()

	cfg := DefaultTrackerConfig()
	state := NewUserState("u1", Observation{
		Emotions: Distribution{{Label: "joy", Score: 0.6}, {Label: "anger", Score: 0.4}},
		At:       userEpoch,
	}, cfg)

	state.Apply(Observation{
		Emotions: Distribution{{Label: "anger", Score: 1}},
		At:       userEpoch.Add(cfg.SlowHalfLife),
	}, cfg)

	require.Len(t, state.TopEmotions, 2)
	assert.Equal(t, "anger", state.TopEmotions[0].Label)
	assert.InDelta(t, 0.8, state.TopEmotions[0].Score, 1e-9)
	assert.InDelta(t, 0.2, state.TopEmotions[1].Score, 1e-9)
}

func TestRankEmotionsBoundsAccumulator(t *testing.T) {
	t.Parallel()

	cfg := DefaultTrackerConfig()
	cfg.TopK = 2
	emotions := make(Distribution, 0, 40)
	for i := 0; i < 40; i++ {
		emotions = append(emotions, LabelScore{Label: string(rune('a'+i%26)) + string(rune('a'+i/26)), Score: float64(i + 1)})
	}

	state := NewUserState("u1", Observation{Emotions: emotions, At: userEpoch}, cfg)

	assert.Len(t, state.EmotionWeights, minTrackedEmotions)
	assert.Len(t, state.TopEmotions, 2)
}

func TestExcerptAndHash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "héllo", Excerpt("  héllo \n world ", 5))
	assert.Equal(t, "a b", Excerpt("a   b", 80))
	assert.Len(t, HashText("x"), 64)
	assert.ErrorIs(t, ValidateUserID(" "), ErrValidation)
}
