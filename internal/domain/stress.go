package domain

import "strings"

type StressLevel string

const (
	StressLow    StressLevel = "low"
	StressMedium StressLevel = "medium"
	StressHigh   StressLevel = "high"
)

type StressResult struct {
	Score float64     `json:"score"`
	Level StressLevel `json:"level"`
}

const (
	DefaultNegativeValenceThreshold = 0.4
	DefaultStressMediumThreshold    = 0.4
	DefaultStressHighThreshold      = 0.7

	stressArousalWeight  = 0.4
	stressValenceWeight  = 0.3
	stressNegativeWeight = 0.3
)

type StressConfig struct {
	// NegativeLabels overrides the valence threshold rule when non-empty.
	NegativeLabels           map[string]struct{}
	NegativeValenceThreshold float64
	MediumThreshold          float64
	HighThreshold            float64
}

func DefaultStressConfig() StressConfig {
	return StressConfig{
		NegativeValenceThreshold: DefaultNegativeValenceThreshold,
		MediumThreshold:          DefaultStressMediumThreshold,
		HighThreshold:            DefaultStressHighThreshold,
	}
}

func NegativeLabelSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		key := strings.ToLower(strings.TrimSpace(label))
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	return set
}

// NegativeMass sums the probability assigned to negative labels.
func (c StressConfig) NegativeMass(d Distribution, table VADTable) float64 {
	mass := 0.0
	for _, ls := range d {
		if c.isNegative(ls.Label, table) {
			mass += ls.Score
		}
	}
	return clamp01(mass)
}

func (c StressConfig) isNegative(label string, table VADTable) bool {
	if len(c.NegativeLabels) > 0 {
		_, ok := c.NegativeLabels[strings.ToLower(strings.TrimSpace(label))]
		return ok
	}
	point, ok := table.Lookup(label)
	return ok && point.Valence < c.NegativeValenceThreshold
}

// StressScore is non-decreasing in arousal and negative mass and non-increasing in valence.
func StressScore(v VAD, negativeMass float64) float64 {
	score := stressArousalWeight*clamp01(v.Arousal) +
		stressValenceWeight*(1-clamp01(v.Valence)) +
		stressNegativeWeight*clamp01(negativeMass)
	return clamp01(score)
}

// Level cuts a score into bands whose lower bounds are inclusive.
func (c StressConfig) Level(score float64) StressLevel {
	switch {
	case score >= c.HighThreshold:
		return StressHigh
	case score >= c.MediumThreshold:
		return StressMedium
	default:
		return StressLow
	}
}

func (c StressConfig) Derive(v VAD, d Distribution, table VADTable) StressResult {
	score := StressScore(v, c.NegativeMass(d, table))
	return StressResult{Score: score, Level: c.Level(score)}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
