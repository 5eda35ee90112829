// Package tables loads the VAD, alias and negative-label lookup tables from JSON, YAML or TOML
// files, falling back to the embedded defaults when no path is configured.
package tables

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/bnema/sentra-emo/internal/domain"
)

// EmbeddedSource is reported as the source of tables loaded from the binary.
const EmbeddedSource = "embedded:default"

//go:embed defaults/*.json
var defaults embed.FS

// LoadVADTable reads label coordinates. Entries are either objects with v/a/d (or
// valence/arousal/dominance) keys or three-element arrays.
func LoadVADTable(path string) (domain.VADTable, string, error) {
	raw, source, err := readTable(path, "defaults/vad.json")
	if err != nil {
		return nil, "", err
	}

	entries, ok := raw.(map[string]any)
	if !ok {
		return nil, "", fmt.Errorf("%w: vad table %s: expected a mapping of label to coordinates", domain.ErrConfig, source)
	}

	table := make(domain.VADTable, len(entries))
	for label, value := range entries {
		key := strings.ToLower(strings.TrimSpace(label))
		if key == "" {
			continue
		}
		vad, err := parseVAD(value)
		if err != nil {
			return nil, "", fmt.Errorf("%w: vad table %s: label %q: %w", domain.ErrConfig, source, label, err)
		}
		if !inUnitRange(vad) {
			return nil, "", fmt.Errorf("%w: vad table %s: label %q: coordinates must lie in [0,1]", domain.ErrConfig, source, label)
		}
		table[key] = vad
	}
	if len(table) == 0 {
		return nil, "", fmt.Errorf("%w: vad table %s is empty", domain.ErrConfig, source)
	}

	return table, source, nil
}

// LoadAliases reads provider spellings. Both "alias: canonical" and "canonical: [aliases]" forms
// are accepted; canonical labels always map to themselves.
func LoadAliases(path string) (domain.AliasTable, string, error) {
	raw, source, err := readTable(path, "defaults/aliases.json")
	if err != nil {
		return nil, "", err
	}

	entries, ok := raw.(map[string]any)
	if !ok {
		return nil, "", fmt.Errorf("%w: alias table %s: expected a mapping", domain.ErrConfig, source)
	}

	aliases := make(domain.AliasTable, len(entries))
	for key, value := range entries {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		switch v := value.(type) {
		case string:
			aliases[key] = strings.ToLower(strings.TrimSpace(v))
		case []any:
			aliases[key] = key
			for _, item := range v {
				alias, ok := item.(string)
				if !ok {
					return nil, "", fmt.Errorf("%w: alias table %s: %q lists a non-string alias", domain.ErrConfig, source, key)
				}
				if alias = strings.ToLower(strings.TrimSpace(alias)); alias != "" {
					aliases[alias] = key
				}
			}
		default:
			return nil, "", fmt.Errorf("%w: alias table %s: unsupported value for %q", domain.ErrConfig, source, key)
		}
	}

	return aliases, source, nil
}

// LoadNegatives reads an explicit negative-label list. An empty path yields no list, which makes
// stress scoring fall back to the valence threshold rule.
func LoadNegatives(path string) ([]string, string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, "", nil
	}
	raw, source, err := readTable(path, "")
	if err != nil {
		return nil, "", err
	}

	if m, ok := raw.(map[string]any); ok {
		for _, key := range []string{"negative", "labels"} {
			if list, ok := m[key]; ok {
				raw = list
				break
			}
		}
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, "", fmt.Errorf("%w: negative table %s: expected a list of labels", domain.ErrConfig, source)
	}

	seen := make(map[string]struct{}, len(list))
	labels := make([]string, 0, len(list))
	for _, item := range list {
		label, ok := item.(string)
		if !ok {
			return nil, "", fmt.Errorf("%w: negative table %s: non-string entry", domain.ErrConfig, source)
		}
		label = strings.ToLower(strings.TrimSpace(label))
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	sort.Strings(labels)

	return labels, source, nil
}

func readTable(path, embedded string) (any, string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		data, err := defaults.ReadFile(embedded)
		if err != nil {
			return nil, "", fmt.Errorf("%w: embedded table %s: %w", domain.ErrConfig, embedded, err)
		}
		raw, err := decode(data, ".json")
		if err != nil {
			return nil, "", fmt.Errorf("%w: embedded table %s: %w", domain.ErrConfig, embedded, err)
		}
		return raw, EmbeddedSource, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read table %s: %w", domain.ErrConfig, path, err)
	}
	raw, err := decode(data, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, "", fmt.Errorf("%w: parse table %s: %w", domain.ErrConfig, path, err)
	}

	return raw, path, nil
}

func decode(data []byte, ext string) (any, error) {
	var raw any
	switch ext {
	case ".json", "":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".toml":
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		raw = doc
	default:
		return nil, fmt.Errorf("unsupported table format %q", ext)
	}

	return normalize(raw), nil
}

// normalize converts YAML's map[any]any nodes so every decoder yields the same shapes.
func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			v[key] = normalize(item)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range v {
			v[i] = normalize(item)
		}
		return v
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}
		return out
	default:
		return value
	}
}

func parseVAD(value any) (domain.VAD, error) {
	switch v := value.(type) {
	case []any:
		if len(v) != 3 {
			return domain.VAD{}, fmt.Errorf("expected 3 coordinates, got %d", len(v))
		}
		coords := make([]float64, 3)
		for i, item := range v {
			f, ok := number(item)
			if !ok {
				return domain.VAD{}, fmt.Errorf("coordinate %d is not a number", i)
			}
			coords[i] = f
		}
		return domain.VAD{Valence: coords[0], Arousal: coords[1], Dominance: coords[2]}, nil
	case map[string]any:
		var vad domain.VAD
		targets := []struct {
			names []string
			dst   *float64
		}{
			{names: []string{"valence", "v"}, dst: &vad.Valence},
			{names: []string{"arousal", "a"}, dst: &vad.Arousal},
			{names: []string{"dominance", "d"}, dst: &vad.Dominance},
		}
		for _, target := range targets {
			found := false
			for _, name := range target.names {
				item, ok := v[name]
				if !ok {
					continue
				}
				f, ok := number(item)
				if !ok {
					return domain.VAD{}, fmt.Errorf("%s is not a number", name)
				}
				*target.dst = f
				found = true
				break
			}
			if !found {
				return domain.VAD{}, fmt.Errorf("missing %s", target.names[0])
			}
		}
		return vad, nil
	default:
		return domain.VAD{}, fmt.Errorf("unsupported entry %T", value)
	}
}

func number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func inUnitRange(v domain.VAD) bool {
	for _, c := range []float64{v.Valence, v.Arousal, v.Dominance} {
		if c < 0 || c > 1 {
			return false
		}
	}
	return true
}
