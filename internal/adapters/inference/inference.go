// Package inference calls locally hosted text-classification servers (for example a
// Hugging Face text-classification pipeline behind HTTP).
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/sentra-emo/internal/adapters/scoring"
	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports"
)

const maxResponseBytes = 1 << 20

type Endpoint struct {
	URL   string
	Model string
}

type Classifier struct {
	Sentiment      Endpoint
	Emotion        Endpoint
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.Classifier = Classifier{}

type inferenceRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

func (c Classifier) Model(task ports.Task) string {
	return c.endpoint(task).Model
}

func (c Classifier) Classify(ctx context.Context, task ports.Task, text string) ([]domain.LabelScore, error) {
	endpoint := c.endpoint(task)
	target, err := validateURL(endpoint.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s endpoint: %w", domain.ErrConfig, task, err)
	}

	body, err := json.Marshal(inferenceRequest{
		Inputs:     text,
		Parameters: map[string]any{"top_k": nil},
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", task, err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", task, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", task, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", task, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("request %s: status %d: %s", task, resp.StatusCode, snippet(payload))
	}

	pairs, err := scoring.Parse(payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", task, err)
	}
	return pairs, nil
}

func (c Classifier) endpoint(task ports.Task) Endpoint {
	if task == ports.TaskEmotion {
		return c.Emotion
	}
	return c.Sentiment
}

func (c Classifier) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Classifier) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func validateURL(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errors.New("url is not configured")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("url host is required")
	}
	return parsed.String(), nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
