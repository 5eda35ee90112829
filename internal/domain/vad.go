package domain

import "strings"

// VADMethod names how a VAD point was produced.
const VADMethod = "emotion_mapping"

type VAD struct {
	Valence   float64 `json:"valence"`
	Arousal   float64 `json:"arousal"`
	Dominance float64 `json:"dominance"`
}

// NeutralVAD is returned when no label of a distribution is known to the table.
var NeutralVAD = VAD{Valence: 0.5, Arousal: 0.5, Dominance: 0.5}

// PAD is VAD under the pleasure-arousal-dominance naming.
type PAD struct {
	Pleasure  float64 `json:"pleasure"`
	Arousal   float64 `json:"arousal"`
	Dominance float64 `json:"dominance"`
}

func (v VAD) PAD() PAD {
	return PAD{Pleasure: v.Valence, Arousal: v.Arousal, Dominance: v.Dominance}
}

// VADTable maps lower-cased canonical labels to coordinates.
type VADTable map[string]VAD

func (t VADTable) Lookup(label string) (VAD, bool) {
	v, ok := t[strings.ToLower(strings.TrimSpace(label))]
	return v, ok
}

// DeriveVAD computes the score-weighted mean of the table coordinates of the labels present in d.
// Labels missing from the table are skipped; fallback is returned when none carry weight.
func DeriveVAD(d Distribution, table VADTable, fallback VAD) VAD {
	var sum VAD
	weight := 0.0
	for _, ls := range d {
		if ls.Score <= 0 {
			continue
		}
		point, ok := table.Lookup(ls.Label)
		if !ok {
			continue
		}
		sum.Valence += ls.Score * point.Valence
		sum.Arousal += ls.Score * point.Arousal
		sum.Dominance += ls.Score * point.Dominance
		weight += ls.Score
	}
	if weight <= 0 {
		return fallback
	}

	return VAD{
		Valence:   sum.Valence / weight,
		Arousal:   sum.Arousal / weight,
		Dominance: sum.Dominance / weight,
	}
}

// UnknownLabels lists the labels of d that the table does not know, in order.
func UnknownLabels(d Distribution, table VADTable) []string {
	var unknown []string
	for _, ls := range d {
		if _, ok := table.Lookup(ls.Label); !ok {
			unknown = append(unknown, ls.Label)
		}
	}
	return unknown
}
