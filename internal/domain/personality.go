package domain

import "strings"

const (
	PersonalityHeuristic = "heuristic"
	PersonalityExternal  = "external"

	AxisIE = "IE"
	AxisTF = "TF"
	AxisSN = "SN"
	AxisJP = "JP"

	ambiguousPole = "X"
)

// AxisThresholds splits a statistic into three zones. Values below Low pick the low pole,
// values above High pick the high pole and anything between is ambiguous.
type AxisThresholds struct {
	Low  float64
	High float64
}

type PersonalityConfig struct {
	IE AxisThresholds
	TF AxisThresholds
	SN AxisThresholds
	JP AxisThresholds
}

func DefaultPersonalityConfig() PersonalityConfig {
	return PersonalityConfig{
		IE: AxisThresholds{Low: 0.48, High: 0.58},
		TF: AxisThresholds{Low: 0.45, High: 0.60},
		SN: AxisThresholds{Low: 0.07, High: 0.14},
		JP: AxisThresholds{Low: 0.07, High: 0.14},
	}
}

type AxisDecision struct {
	Axis      string  `json:"axis"`
	Pole      string  `json:"pole"`
	Statistic string  `json:"statistic"`
	Value     float64 `json:"value"`
	Ambiguous bool    `json:"ambiguous"`
}

type PersonalityResult struct {
	Type    string         `json:"type"`
	Method  string         `json:"method"`
	Samples int            `json:"samples"`
	Axes    []AxisDecision `json:"axes"`
}

type axisRule struct {
	axis      string
	statistic string
	lowPole   string
	highPole  string
	value     func(AnalyticsSummary) float64
	limits    func(PersonalityConfig) AxisThresholds
}

var personalityAxes = []axisRule{
	{
		axis: AxisIE, statistic: "arousal_mean", lowPole: "I", highPole: "E",
		value:  func(s AnalyticsSummary) float64 { return s.Arousal.Mean },
		limits: func(c PersonalityConfig) AxisThresholds { return c.IE },
	},
	{
		axis: AxisSN, statistic: "valence_std", lowPole: "S", highPole: "N",
		value:  func(s AnalyticsSummary) float64 { return s.Valence.Std },
		limits: func(c PersonalityConfig) AxisThresholds { return c.SN },
	},
	{
		axis: AxisTF, statistic: "valence_mean", lowPole: "T", highPole: "F",
		value:  func(s AnalyticsSummary) float64 { return s.Valence.Mean },
		limits: func(c PersonalityConfig) AxisThresholds { return c.TF },
	},
	{
		axis: AxisJP, statistic: "arousal_std", lowPole: "J", highPole: "P",
		value:  func(s AnalyticsSummary) float64 { return s.Arousal.Std },
		limits: func(c PersonalityConfig) AxisThresholds { return c.JP },
	},
}

// ClassifyPersonality decides each axis independently from the summary statistics.
// Ambiguous axes are written as X in the type string.
func ClassifyPersonality(summary AnalyticsSummary, cfg PersonalityConfig) PersonalityResult {
	result := PersonalityResult{
		Method:  PersonalityHeuristic,
		Samples: summary.Count,
		Axes:    make([]AxisDecision, 0, len(personalityAxes)),
	}

	var b strings.Builder
	for _, rule := range personalityAxes {
		value := rule.value(summary)
		limits := rule.limits(cfg)
		decision := AxisDecision{Axis: rule.axis, Statistic: rule.statistic, Value: value}
		switch {
		case summary.Count == 0:
			decision.Pole = ambiguousPole
			decision.Ambiguous = true
		case value < limits.Low:
			decision.Pole = rule.lowPole
		case value > limits.High:
			decision.Pole = rule.highPole
		default:
			decision.Pole = ambiguousPole
			decision.Ambiguous = true
		}
		b.WriteString(decision.Pole)
		result.Axes = append(result.Axes, decision)
	}
	result.Type = b.String()

	return result
}
