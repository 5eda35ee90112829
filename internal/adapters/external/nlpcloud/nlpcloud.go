// Package nlpcloud calls the NLP Cloud sentiment endpoint, which serves both sentiment and
// emotion models.
package nlpcloud

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

	"github.com/bnema/sentra-emo/internal/adapters/scoring"
	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports"
)

const (
	DefaultBaseURL   = "https://api.nlpcloud.io/v1/"
	maxResponseBytes = 1 << 20
)

type Provider struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ ports.ExternalProvider = Provider{}

type sentimentRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (Provider) Name() domain.Provider {
	return domain.ProviderNLPCloud
}

func (p Provider) Classify(ctx context.Context, req ports.ExternalRequest) ([]domain.LabelScore, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, fmt.Errorf("%w: nlpcloud model is not configured", domain.ErrConfig)
	}
	if req.Token == "" {
		return nil, fmt.Errorf("%w: nlpcloud token is empty", domain.ErrConfig)
	}

	endpoint, err := p.endpoint(req.Model, req.GPU)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(sentimentRequest{Text: req.Text})
	if err != nil {
		return nil, fmt.Errorf("encode nlpcloud request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create nlpcloud request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Token "+req.Token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient().Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request nlpcloud %s: %w", req.Task, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read nlpcloud response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := errorMessage(resp.StatusCode, payload)
		if resp.StatusCode == http.StatusTooManyRequests || scoring.IsRateLimitMessage(msg) {
			return nil, fmt.Errorf("%w: nlpcloud: %s", domain.ErrRateLimited, msg)
		}
		return nil, fmt.Errorf("nlpcloud %s: %s", req.Task, msg)
	}

	pairs, err := scoring.Parse(payload)
	if err != nil {
		return nil, fmt.Errorf("decode nlpcloud response: %w", err)
	}
	return pairs, nil
}

func (p Provider) endpoint(model string, gpu bool) (string, error) {
	base := p.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: parse nlpcloud base url: %w", domain.ErrConfig, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.Join(domain.ErrConfig, errors.New("nlpcloud base url must use http or https"))
	}

	path := url.PathEscape(model) + "/sentiment"
	if gpu {
		path = "gpu/" + path
	}
	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("%w: build nlpcloud url: %w", domain.ErrConfig, err)
	}
	return endpoint.String(), nil
}

func (p Provider) httpClient() *http.Client {
	if p.HTTPClient != nil {
		return p.HTTPClient
	}
	return http.DefaultClient
}

func errorMessage(status int, payload []byte) string {
	var e errorResponse
	if err := json.Unmarshal(payload, &e); err == nil && e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", status, http.StatusText(status), e.Detail)
	}
	text := strings.TrimSpace(string(payload))
	if len(text) > 200 {
		text = text[:200]
	}
	if text == "" {
		return fmt.Sprintf("%d %s", status, http.StatusText(status))
	}
	return fmt.Sprintf("%d %s: %s", status, http.StatusText(status), text)
}
