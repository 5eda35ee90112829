// Package scoring decodes the label-score payloads returned by inference backends.
package scoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/sentra-emo/internal/domain"
)

var ErrUnrecognizedPayload = errors.New("unrecognized label score payload")

// Parse accepts a flat list of {label, score} objects, a list nested one level deep (one entry
// per input text, the first is used), or an object carrying the list under scored_labels,
// labels, predictions or emotions.
func Parse(data []byte) ([]domain.LabelScore, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrUnrecognizedPayload
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode label scores: %w", err)
	}

	return FromValue(raw)
}

// FromValue applies Parse's shape rules to an already decoded JSON value.
func FromValue(raw any) ([]domain.LabelScore, error) {
	switch v := raw.(type) {
	case []any:
		if len(v) > 0 {
			if nested, ok := v[0].([]any); ok {
				return fromList(nested)
			}
		}
		return fromList(v)
	case map[string]any:
		for _, key := range []string{"scored_labels", "labels", "predictions", "emotions"} {
			if list, ok := v[key].([]any); ok {
				return fromList(list)
			}
		}
		if label, ok := v["label"].(string); ok {
			return fromList([]any{map[string]any{"label": label, "score": v["score"]}})
		}
	}

	return nil, ErrUnrecognizedPayload
}

func fromList(items []any) ([]domain.LabelScore, error) {
	out := make([]domain.LabelScore, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		label := strings.TrimSpace(fmt.Sprint(obj["label"]))
		if label == "" || obj["label"] == nil {
			continue
		}
		out = append(out, domain.LabelScore{Label: label, Score: toFloat(obj["score"])})
	}
	if len(out) == 0 && len(items) > 0 {
		return nil, ErrUnrecognizedPayload
	}

	return out, nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err == nil {
			return f
		}
	}
	return 0
}

var rateLimitMarkers = []string{
	"too many requests",
	"rate limit",
	"maximum number of requests per minute",
	"resource_exhausted",
}

// IsRateLimitMessage reports whether a provider error message signals throttling.
func IsRateLimitMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, marker := range rateLimitMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
