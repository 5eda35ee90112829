package domain

import (
	"sort"
	"strings"
)

// NeutralLabel is the label an empty distribution collapses to.
const NeutralLabel = "neutral"

type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Distribution is an ordered set of label scores. Label uniqueness is enforced by Merge.
type Distribution []LabelScore

// AliasTable maps lower-cased provider spellings to canonical labels.
type AliasTable map[string]string

func (t AliasTable) Resolve(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if canonical, ok := t[key]; ok && strings.TrimSpace(canonical) != "" {
		return strings.TrimSpace(canonical)
	}
	return key
}

// Merge sums the scores of repeated labels, keeping first-seen order. Empty labels are dropped
// and negative scores clamp to zero.
func Merge(pairs []LabelScore) Distribution {
	merged := make(Distribution, 0, len(pairs))
	index := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		label := strings.TrimSpace(pair.Label)
		if label == "" {
			continue
		}
		score := pair.Score
		if score < 0 {
			score = 0
		}
		if i, ok := index[label]; ok {
			merged[i].Score += score
			continue
		}
		index[label] = len(merged)
		merged = append(merged, LabelScore{Label: label, Score: score})
	}
	return merged
}

// Normalize returns a copy whose scores are non-negative and sum to 1. An empty distribution
// becomes neutral=1.0 and a distribution without mass becomes uniform over its labels.
func Normalize(pairs []LabelScore) Distribution {
	d := Merge(pairs)
	if len(d) == 0 {
		return Distribution{{Label: NeutralLabel, Score: 1}}
	}

	total := 0.0
	for _, ls := range d {
		total += ls.Score
	}
	if total <= 0 {
		uniform := 1 / float64(len(d))
		for i := range d {
			d[i].Score = uniform
		}
		return d
	}

	for i := range d {
		d[i].Score /= total
	}
	return d
}

// Sorted returns a copy ordered by descending score. Ties keep their input order.
func (d Distribution) Sorted() Distribution {
	out := append(Distribution(nil), d...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Top returns the highest scoring entry and false when the distribution is empty.
func (d Distribution) Top() (LabelScore, bool) {
	if len(d) == 0 {
		return LabelScore{}, false
	}
	best := d[0]
	for _, ls := range d[1:] {
		if ls.Score > best.Score {
			best = ls
		}
	}
	return best, true
}

func (d Distribution) Sum() float64 {
	total := 0.0
	for _, ls := range d {
		total += ls.Score
	}
	return total
}

// Score returns the score of label, or zero when the label is absent.
func (d Distribution) Score(label string) float64 {
	for _, ls := range d {
		if ls.Label == label {
			return ls.Score
		}
	}
	return 0
}

// FilterMinScore drops labels scoring below min. When nothing would survive the input is
// returned unchanged, and a filter that changes membership renormalizes the survivors.
func FilterMinScore(d Distribution, min float64) Distribution {
	if min <= 0 || len(d) == 0 {
		return d
	}

	kept := make(Distribution, 0, len(d))
	for _, ls := range d {
		if ls.Score >= min {
			kept = append(kept, ls)
		}
	}
	if len(kept) == 0 || len(kept) == len(d) {
		return d
	}
	return Normalize(kept)
}

// CapTopK keeps the k highest scoring labels. k <= 0 disables the cap.
func CapTopK(d Distribution, k int) Distribution {
	if k <= 0 || len(d) <= k {
		return d
	}
	return Normalize(d.Sorted()[:k])
}
