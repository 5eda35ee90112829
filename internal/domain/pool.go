package domain

import (
	"fmt"
	"strings"
	"time"
)

type Provider string
type BackendMode string

const (
	ProviderNLPCloud Provider = "nlpcloud"
	ProviderOpenAI   Provider = "openai"
	ProviderGemini   Provider = "gemini"

	BackendLocal  BackendMode = "local"
	BackendOnline BackendMode = "online"
	BackendAuto   BackendMode = "auto"
)

func ParseBackendMode(raw string) (BackendMode, error) {
	switch mode := BackendMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case BackendLocal, BackendOnline, BackendAuto:
		return mode, nil
	case "":
		return BackendLocal, nil
	default:
		return "", fmt.Errorf("%w: unsupported backend mode %q", ErrConfig, raw)
	}
}

func ParseProvider(raw string) (Provider, error) {
	switch provider := Provider(strings.ToLower(strings.TrimSpace(raw))); provider {
	case ProviderNLPCloud, ProviderOpenAI, ProviderGemini:
		return provider, nil
	case "":
		return ProviderNLPCloud, nil
	default:
		return "", fmt.Errorf("%w: unsupported provider %q", ErrConfig, raw)
	}
}

// TokenPoolEntry is one credential of the external token pool.
type TokenPoolEntry struct {
	Token         string
	CooldownUntil time.Time
}

// Available reports whether the entry may be picked at now.
func (e TokenPoolEntry) Available(now time.Time) bool {
	return !e.CooldownUntil.After(now)
}

// Penalize extends the cooldown to until, never shortening one already in place.
func (e *TokenPoolEntry) Penalize(until time.Time) {
	if e == nil {
		return
	}
	if until.After(e.CooldownUntil) {
		e.CooldownUntil = until
	}
}

// TokenStatus is the masked view of an entry used for status output.
type TokenStatus struct {
	Index         int       `json:"index"`
	Token         string    `json:"token"`
	CooldownUntil time.Time `json:"cooldown_until,omitzero"`
	Cooling       bool      `json:"cooling"`
}

// SplitTokens parses a comma-separated token list.
func SplitTokens(raw string) []string {
	return NormalizeTokens(strings.Split(raw, ","))
}

// NormalizeTokens trims tokens, drops empty ones and removes duplicates, keeping first-seen order.
func NormalizeTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		trimmed := strings.TrimSpace(token)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	return out
}

func MaskToken(token string) string {
	token = strings.TrimSpace(token)
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}
