// Package openai classifies text through the OpenAI Responses API with a strict JSON schema.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/bnema/sentra-emo/internal/adapters/external"
	"github.com/bnema/sentra-emo/internal/adapters/scoring"
	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports"
)

const maxOutputTokens = 1200

var responseSchema = generateSchema[external.Response]()

type Provider struct {
	client *openai.Client
}

var _ ports.ExternalProvider = (*Provider)(nil)

// NewProvider builds a client without credentials; each call carries the pool token. The SDK's
// own retries are disabled so throttling reaches the token pool.
func NewProvider(opts ...option.RequestOption) *Provider {
	opts = append([]option.RequestOption{option.WithMaxRetries(0)}, opts...)
	client := openai.NewClient(opts...)
	return &Provider{client: &client}
}

func (*Provider) Name() domain.Provider {
	return domain.ProviderOpenAI
}

func (p *Provider) Classify(ctx context.Context, req ports.ExternalRequest) ([]domain.LabelScore, error) {
	if p.client == nil {
		return nil, errors.New("openai provider: client is nil")
	}
	if strings.TrimSpace(req.Model) == "" {
		return nil, fmt.Errorf("%w: openai model is not configured", domain.ErrConfig)
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "LabelScores",
			Schema:      responseSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Label probability distribution"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           req.Model,
		MaxOutputTokens: openai.Int(maxOutputTokens),
		Instructions:    openai.String(external.Instructions(req.Task)),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(req.Text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := p.client.Responses.New(ctx, params, option.WithAPIKey(req.Token))
	if err != nil {
		if isRateLimitError(err) {
			return nil, fmt.Errorf("%w: openai: %w", domain.ErrRateLimited, err)
		}
		return nil, fmt.Errorf("openai %s: %w", req.Task, err)
	}

	pairs, err := external.Decode(resp.OutputText())
	if err != nil {
		return nil, fmt.Errorf("openai %s: %w", req.Task, err)
	}
	return pairs, nil
}

func isRateLimitError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return scoring.IsRateLimitMessage(err.Error())
}

func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	schemaObj, err := schemaToMap(schema)
	if err != nil {
		panic(err)
	}
	ensureStrict(schemaObj)
	return schemaObj
}

func schemaToMap(schema *jsonschema.Schema) (map[string]any, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ensureStrict marks every object closed with all properties required, as strict mode demands.
func ensureStrict(schema map[string]any) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if properties, ok := schema["properties"].(map[string]any); ok {
			required := make([]string, 0, len(properties))
			for name := range properties {
				required = append(required, name)
			}
			if len(required) > 0 {
				schema["required"] = required
			}
		}
	}
	if properties, ok := schema["properties"].(map[string]any); ok {
		for _, prop := range properties {
			if m, ok := prop.(map[string]any); ok {
				ensureStrict(m)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		ensureStrict(items)
	}
}
