// Package personality delegates personality classification to an external HTTP service.
package personality

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports"
)

const maxResponseBytes = 1 << 16

// poles lists the accepted letters per position of a type string.
var poles = [4]string{"IEX", "SNX", "TFX", "JPX"}

type Client struct {
	URL            string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.PersonalityClassifier = Client{}

type classifyResponse struct {
	Type string                `json:"type"`
	Axes []domain.AxisDecision `json:"axes,omitempty"`
}

// Classify posts the analytics summary as JSON and expects {"type": "INFJ"} back.
func (c Client) Classify(ctx context.Context, summary domain.AnalyticsSummary) (domain.PersonalityResult, error) {
	if strings.TrimSpace(c.URL) == "" {
		return domain.PersonalityResult{}, fmt.Errorf("%w: personality service url is not configured", domain.ErrConfig)
	}

	body, err := json.Marshal(summary)
	if err != nil {
		return domain.PersonalityResult{}, fmt.Errorf("encode personality request: %w", err)
	}

	timeout := c.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	requestCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return domain.PersonalityResult{}, fmt.Errorf("create personality request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return domain.PersonalityResult{}, fmt.Errorf("request personality service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.PersonalityResult{}, fmt.Errorf("personality service: status %d", resp.StatusCode)
	}

	var payload classifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return domain.PersonalityResult{}, fmt.Errorf("decode personality response: %w", err)
	}

	personalityType := strings.ToUpper(strings.TrimSpace(payload.Type))
	if !validType(personalityType) {
		return domain.PersonalityResult{}, fmt.Errorf("personality service returned invalid type %q", payload.Type)
	}

	return domain.PersonalityResult{
		Type:    personalityType,
		Method:  domain.PersonalityExternal,
		Samples: summary.Count,
		Axes:    payload.Axes,
	}, nil
}

func validType(t string) bool {
	if len(t) != len(poles) {
		return false
	}
	for i, allowed := range poles {
		if !strings.ContainsRune(allowed, rune(t[i])) {
			return false
		}
	}
	return true
}
