package domain

import (
	"math"
	"time"
)

const (
	DefaultAnalyticsDays      = 30
	DefaultAnalyticsMaxEvents = 10000
	DefaultPositiveValenceCut = 0.56
	DefaultNegativeValenceCut = 0.44
)

type AxisStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

type StressSummary struct {
	Mean   float64             `json:"mean"`
	Levels map[StressLevel]int `json:"levels"`
}

// AnalyticsSummary aggregates a window of a user's events. It is recomputed on every request.
type AnalyticsSummary struct {
	UserID        string             `json:"userid"`
	Start         time.Time          `json:"start"`
	End           time.Time          `json:"end"`
	Count         int                `json:"count"`
	Sentiment     map[string]int     `json:"sentiment"`
	Valence       AxisStats          `json:"valence"`
	Arousal       AxisStats          `json:"arousal"`
	Dominance     AxisStats          `json:"dominance"`
	Stress        StressSummary      `json:"stress"`
	TopEmotions   []LabelScore       `json:"top_emotions"`
	PositiveRatio float64            `json:"positive_ratio"`
	NegativeRatio float64            `json:"negative_ratio"`
	Personality   *PersonalityResult `json:"personality,omitempty"`
}

// ValenceCuts classify an event as positive or negative by its valence.
type ValenceCuts struct {
	Positive float64
	Negative float64
}

func DefaultValenceCuts() ValenceCuts {
	return ValenceCuts{Positive: DefaultPositiveValenceCut, Negative: DefaultNegativeValenceCut}
}

// Summarize folds events into a summary. topK bounds TopEmotions; zero keeps the default.
func Summarize(userID string, events []EmotionEvent, start, end time.Time, cuts ValenceCuts, topK int) AnalyticsSummary {
	summary := AnalyticsSummary{
		UserID:      userID,
		Start:       start,
		End:         end,
		Count:       len(events),
		Sentiment:   map[string]int{},
		Stress:      StressSummary{Levels: map[StressLevel]int{StressLow: 0, StressMedium: 0, StressHigh: 0}},
		TopEmotions: []LabelScore{},
	}
	if len(events) == 0 {
		return summary
	}

	valence := make([]float64, 0, len(events))
	arousal := make([]float64, 0, len(events))
	dominance := make([]float64, 0, len(events))
	stressTotal := 0.0
	positive, negative := 0, 0
	emotionTotals := make(Distribution, 0)
	for _, event := range events {
		if event.SentimentLabel != "" {
			summary.Sentiment[event.SentimentLabel]++
		}
		valence = append(valence, event.VAD.Valence)
		arousal = append(arousal, event.VAD.Arousal)
		dominance = append(dominance, event.VAD.Dominance)

		stressTotal += event.Stress.Score
		if event.Stress.Level != "" {
			summary.Stress.Levels[event.Stress.Level]++
		}

		switch {
		case event.VAD.Valence >= cuts.Positive:
			positive++
		case event.VAD.Valence <= cuts.Negative:
			negative++
		}
		emotionTotals = append(emotionTotals, event.Emotions...)
	}

	n := float64(len(events))
	summary.Valence = axisStats(valence)
	summary.Arousal = axisStats(arousal)
	summary.Dominance = axisStats(dominance)
	summary.Stress.Mean = stressTotal / n
	summary.PositiveRatio = float64(positive) / n
	summary.NegativeRatio = float64(negative) / n

	if topK <= 0 {
		topK = DefaultTopEmotions
	}
	mean := Merge(emotionTotals)
	for i := range mean {
		mean[i].Score /= n
	}
	mean = mean.Sorted()
	if len(mean) > topK {
		mean = mean[:topK]
	}
	summary.TopEmotions = mean

	return summary
}

// axisStats returns the mean and population standard deviation.
func axisStats(values []float64) AxisStats {
	if len(values) == 0 {
		return AxisStats{}
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	sq := 0.0
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return AxisStats{Mean: mean, Std: math.Sqrt(sq / float64(len(values)))}
}
