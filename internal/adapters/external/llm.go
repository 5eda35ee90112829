// Package external holds what the hosted LLM providers share: the label vocabularies, the
// classification instructions and the structured response they are asked to return.
package external

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bnema/sentra-emo/internal/adapters/scoring"
	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports"
)

var SentimentLabels = []string{"positive", "negative", "neutral"}

// EmotionLabels is the GoEmotions label set, which the default VAD table covers.
var EmotionLabels = []string{
	"admiration", "amusement", "anger", "annoyance", "approval", "caring", "confusion",
	"curiosity", "desire", "disappointment", "disapproval", "disgust", "embarrassment",
	"excitement", "fear", "gratitude", "grief", "joy", "love", "nervousness", "optimism",
	"pride", "realization", "relief", "remorse", "sadness", "surprise", "neutral",
}

// LabelScore mirrors domain.LabelScore with schema tags for structured output.
type LabelScore struct {
	Label string  `json:"label" jsonschema:"required"`
	Score float64 `json:"score" jsonschema:"required"`
}

type Response struct {
	Labels []LabelScore `json:"labels" jsonschema:"required"`
}

func Labels(task ports.Task) []string {
	if task == ports.TaskEmotion {
		return EmotionLabels
	}
	return SentimentLabels
}

func Instructions(task ports.Task) string {
	kind := "sentiment"
	if task == ports.TaskEmotion {
		kind = "emotion"
	}
	return fmt.Sprintf(
		"You are a %s classifier. Score the user's text against every label in [%s]. "+
			"Scores are probabilities between 0 and 1 that sum to 1. "+
			"Reply with JSON only, shaped as {\"labels\":[{\"label\":\"...\",\"score\":0.0}]}.",
		kind, strings.Join(Labels(task), ", "),
	)
}

// Decode reads the model output. Leading prose or code fences around the JSON are tolerated.
func Decode(output string) ([]domain.LabelScore, error) {
	s := strings.TrimSpace(output)
	start := strings.IndexAny(s, "{[")
	end := strings.LastIndexAny(s, "}]")
	if start == -1 || end < start {
		return nil, fmt.Errorf("no JSON found in model output (len=%d)", len(s))
	}

	var raw any
	if err := json.Unmarshal([]byte(s[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	return scoring.FromValue(raw)
}
