package domain

import "strings"

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// NeutralMode controls whether the neutral bucket appears in sentiment scores.
type NeutralMode string

const (
	NeutralAuto NeutralMode = "auto"
	NeutralOn   NeutralMode = "on"
	NeutralOff  NeutralMode = "off"
)

func ParseNeutralMode(raw string) NeutralMode {
	switch NeutralMode(strings.ToLower(strings.TrimSpace(raw))) {
	case NeutralOn:
		return NeutralOn
	case NeutralOff:
		return NeutralOff
	default:
		return NeutralAuto
	}
}

type SentimentResult struct {
	Label    string             `json:"label"`
	Scores   map[string]float64 `json:"scores"`
	RawModel string             `json:"raw_model"`
}

var (
	positiveEmotions = map[string]struct{}{
		"love": {}, "joy": {}, "amusement": {}, "optimism": {}, "gratitude": {}, "admiration": {},
		"excitement": {}, "desire": {}, "pride": {}, "relief": {}, "happiness": {}, "caring": {},
		"approval": {},
	}
	negativeEmotions = map[string]struct{}{
		"anger": {}, "fear": {}, "sadness": {}, "disgust": {}, "contempt": {}, "disappointment": {},
		"remorse": {}, "guilt": {}, "embarrassment": {}, "grief": {}, "nervousness": {},
		"confusion": {}, "disapproval": {},
	}
	neutralEmotions = map[string]struct{}{
		"surprise": {}, "curiosity": {}, "neutral": {},
	}
)

// SentimentBucket maps a raw label to positive, negative or neutral. Labels that match neither a
// sentiment word nor a known emotion are returned unchanged so they stay visible.
func SentimentBucket(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.Contains(l, "pos"):
		return SentimentPositive
	case strings.Contains(l, "neg"):
		return SentimentNegative
	case strings.Contains(l, "neu"):
		return SentimentNeutral
	}

	if _, ok := positiveEmotions[l]; ok {
		return SentimentPositive
	}
	if _, ok := negativeEmotions[l]; ok {
		return SentimentNegative
	}
	if _, ok := neutralEmotions[l]; ok {
		return SentimentNeutral
	}
	return label
}

// BucketSentiment folds raw pairs into sentiment buckets, renormalizes them and picks the
// highest bucket. Ties go to the bucket encountered first.
func BucketSentiment(pairs []LabelScore, mode NeutralMode) SentimentResult {
	buckets := make(Distribution, 0, 3)
	index := map[string]int{}
	for _, pair := range pairs {
		key := SentimentBucket(pair.Label)
		if key == "" {
			continue
		}
		score := pair.Score
		if score < 0 {
			score = 0
		}
		if i, ok := index[key]; ok {
			buckets[i].Score += score
			continue
		}
		index[key] = len(buckets)
		buckets = append(buckets, LabelScore{Label: key, Score: score})
	}

	buckets = applyNeutralMode(buckets, index, mode)
	if len(buckets) == 0 {
		buckets = Distribution{{Label: SentimentNeutral, Score: 1}}
	}

	total := buckets.Sum()
	if total <= 0 {
		total = 1
	}

	result := SentimentResult{Scores: make(map[string]float64, len(buckets))}
	best := -1.0
	for _, b := range buckets {
		score := b.Score / total
		result.Scores[b.Label] = score
		if score > best {
			best = score
			result.Label = b.Label
		}
	}
	return result
}

func applyNeutralMode(buckets Distribution, index map[string]int, mode NeutralMode) Distribution {
	switch mode {
	case NeutralOn:
		if _, ok := index[SentimentNeutral]; !ok {
			buckets = append(buckets, LabelScore{Label: SentimentNeutral, Score: 0})
		}
	case NeutralOff:
		i, ok := index[SentimentNeutral]
		if !ok || len(buckets) == 1 {
			return buckets
		}
		out := make(Distribution, 0, len(buckets)-1)
		out = append(out, buckets[:i]...)
		return append(out, buckets[i+1:]...)
	}
	return buckets
}
