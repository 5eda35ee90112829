package domain

// Canonicalizer turns raw classifier output into a normalized distribution over canonical labels.
type Canonicalizer struct {
	Aliases    AliasTable
	UseAliases bool
	// MultiLabel enables Threshold, the per-label cut applied in multi-label mode.
	MultiLabel bool
	Threshold  float64
	MinScore   float64
	TopK       int
}

// Apply resolves aliases, merges collapsed labels, renormalizes and applies the configured
// filters. The result is never empty and is ordered by descending score.
func (c Canonicalizer) Apply(raw []LabelScore) Distribution {
	resolved := make([]LabelScore, 0, len(raw))
	for _, pair := range raw {
		label := pair.Label
		if c.UseAliases && c.Aliases != nil {
			label = c.Aliases.Resolve(label)
		}
		resolved = append(resolved, LabelScore{Label: label, Score: pair.Score})
	}

	d := Normalize(resolved)
	if c.MultiLabel {
		d = FilterMinScore(d, c.Threshold)
	}
	d = FilterMinScore(d, c.MinScore)
	d = CapTopK(d, c.TopK)

	return d.Sorted()
}
