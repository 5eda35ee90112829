// Package gemini classifies text with the Gemini API using a JSON response schema.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/bnema/sentra-emo/internal/adapters/external"
	"github.com/bnema/sentra-emo/internal/adapters/scoring"
	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports"
)

// Provider keeps one client per API key since genai binds credentials at construction.
type Provider struct {
	BaseURL    string
	HTTPClient *http.Client

	mu      sync.Mutex
	clients map[string]*genai.Client
}

var _ ports.ExternalProvider = (*Provider)(nil)

func NewProvider() *Provider {
	return &Provider{}
}

func (*Provider) Name() domain.Provider {
	return domain.ProviderGemini
}

func (p *Provider) Classify(ctx context.Context, req ports.ExternalRequest) ([]domain.LabelScore, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, fmt.Errorf("%w: gemini model is not configured", domain.ErrConfig)
	}

	client, err := p.client(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(external.Instructions(req.Task), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema(req.Task),
		Temperature:       genai.Ptr[float32](0),
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Text), config)
	if err != nil {
		if isRateLimitError(err) {
			return nil, fmt.Errorf("%w: gemini: %w", domain.ErrRateLimited, err)
		}
		return nil, fmt.Errorf("gemini %s: %w", req.Task, err)
	}

	pairs, err := external.Decode(resp.Text())
	if err != nil {
		return nil, fmt.Errorf("gemini %s: %w", req.Task, err)
	}
	return pairs, nil
}

func (p *Provider) client(ctx context.Context, token string) (*genai.Client, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: gemini token is empty", domain.ErrConfig)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[token]; ok {
		return c, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:     token,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.HTTPClient,
	}
	if p.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.BaseURL}
	}

	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create gemini client: %w", domain.ErrConfig, err)
	}
	if p.clients == nil {
		p.clients = make(map[string]*genai.Client)
	}
	p.clients[token] = c
	return c, nil
}

func responseSchema(task ports.Task) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"labels": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"label": {Type: genai.TypeString, Enum: external.Labels(task)},
						"score": {Type: genai.TypeNumber},
					},
					Required: []string{"label", "score"},
				},
			},
		},
		Required: []string{"labels"},
	}
}

func isRateLimitError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code == http.StatusTooManyRequests || apiErrPtr.Status == "RESOURCE_EXHAUSTED"
	}
	return scoring.IsRateLimitMessage(err.Error())
}
