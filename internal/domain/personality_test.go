package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPersonalityThreeZones(t *testing.T) {
	t.Parallel()

	summary := AnalyticsSummary{
		Count:   12,
		Arousal: AxisStats{Mean: 0.40, Std: 0.10},
		Valence: AxisStats{Mean: 0.70, Std: 0.20},
	}

	got := ClassifyPersonality(summary, DefaultPersonalityConfig())

	assert.Equal(t, "INFX", got.Type)
	assert.Equal(t, PersonalityHeuristic, got.Method)
	assert.Equal(t, 12, got.Samples)
	require.Len(t, got.Axes, 4)
	assert.False(t, got.Axes[0].Ambiguous)
	assert.True(t, got.Axes[3].Ambiguous)
	assert.Equal(t, AxisJP, got.Axes[3].Axis)
}

func TestClassifyPersonalityOppositePoles(t *testing.T) {
	t.Parallel()

	summary := AnalyticsSummary{
		Count:   3,
		Arousal: AxisStats{Mean: 0.70, Std: 0.01},
		Valence: AxisStats{Mean: 0.20, Std: 0.01},
	}

	assert.Equal(t, "ESTJ", ClassifyPersonality(summary, DefaultPersonalityConfig()).Type)
}

func TestClassifyPersonalityWithoutEventsIsAmbiguous(t *testing.T) {
	t.Parallel()

	got := ClassifyPersonality(AnalyticsSummary{}, DefaultPersonalityConfig())

	assert.Equal(t, "XXXX", got.Type)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	events := []EmotionEvent{
		{
			SentimentLabel: SentimentPositive,
			VAD:            VAD{Valence: 0.6, Arousal: 0.5, Dominance: 0.5},
			Stress:         StressResult{Score: 0.2, Level: StressLow},
			Emotions:       Distribution{{Label: "joy", Score: 1}},
		},
		{
			SentimentLabel: SentimentNegative,
			VAD:            VAD{Valence: 0.4, Arousal: 0.7, Dominance: 0.5},
			Stress:         StressResult{Score: 0.6, Level: StressMedium},
			Emotions:       Distribution{{Label: "anger", Score: 0.5}, {Label: "joy", Score: 0.5}},
		},
	}

	got := Summarize("u1", events, start, start.Add(24*time.Hour), DefaultValenceCuts(), 0)

	assert.Equal(t, 2, got.Count)
	assert.Equal(t, map[string]int{SentimentPositive: 1, SentimentNegative: 1}, got.Sentiment)
	assert.InDelta(t, 0.5, got.Valence.Mean, 1e-9)
	assert.InDelta(t, 0.1, got.Valence.Std, 1e-9)
	assert.InDelta(t, 0.6, got.Arousal.Mean, 1e-9)
	assert.Zero(t, got.Dominance.Std)
	assert.InDelta(t, 0.4, got.Stress.Mean, 1e-9)
	assert.Equal(t, 1, got.Stress.Levels[StressLow])
	assert.Equal(t, 1, got.Stress.Levels[StressMedium])
	assert.Equal(t, 0, got.Stress.Levels[StressHigh])
	assert.InDelta(t, 0.5, got.PositiveRatio, 1e-9)
	assert.InDelta(t, 0.5, got.NegativeRatio, 1e-9)
	require.Len(t, got.TopEmotions, 2)
	assert.Equal(t, "joy", got.TopEmotions[0].Label)
	assert.InDelta(t, 0.75, got.TopEmotions[0].Score, 1e-9)
}

func TestSummarizeEmptyWindow(t *testing.T) {
	t.Parallel()

	got := Summarize("u1", nil, time.Time{}, time.Time{}, DefaultValenceCuts(), 3)

	assert.Zero(t, got.Count)
	assert.Empty(t, got.TopEmotions)
	assert.Nil(t, got.Personality)
}
