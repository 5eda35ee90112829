package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports"
)

// TokenSource yields the configured token list. It is called once, on first use of the pool.
type TokenSource func(ctx context.Context) ([]string, error)

// StaticTokens returns a source over a fixed list.
func StaticTokens(tokens []string) TokenSource {
	return func(context.Context) ([]string, error) {
		return tokens, nil
	}
}

// SecretTokenPrefix marks a configured token as a secret store key.
const SecretTokenPrefix = "secret:"

// SecretTokens resolves entries written as secret:<key> through store and keeps the others as
// literal tokens. Resolution happens when the pool first loads.
func SecretTokens(tokens []string, store ports.SecretStore) TokenSource {
	return func(ctx context.Context) ([]string, error) {
		resolved := make([]string, 0, len(tokens))
		for _, token := range tokens {
			key, isRef := strings.CutPrefix(token, SecretTokenPrefix)
			if !isRef {
				resolved = append(resolved, token)
				continue
			}
			if store == nil {
				return nil, fmt.Errorf("token reference %q needs a secret store", key)
			}
			value, err := store.Get(ctx, key)
			if err != nil {
				return nil, fmt.Errorf("resolve token reference %q: %w", key, err)
			}
			resolved = append(resolved, value)
		}
		return resolved, nil
	}
}

// TokenPool rotates external credentials round robin and parks rate-limited ones until their
// cooldown elapses. The mutex is only held while scanning, never across a provider call.
type TokenPool struct {
	source   TokenSource
	cooldown time.Duration
	clock    ports.Clock

	loadMu sync.Mutex

	mu      sync.Mutex
	entries []domain.TokenPoolEntry
	cursor  int
	loaded  bool
}

func NewTokenPool(source TokenSource, cooldown time.Duration, clock ports.Clock) *TokenPool {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if source == nil {
		source = StaticTokens(nil)
	}

	return &TokenPool{source: source, cooldown: cooldown, clock: clock}
}

// Validate loads the token list eagerly so configuration errors surface at startup.
func (p *TokenPool) Validate(ctx context.Context) error {
	return p.ensureLoaded(ctx)
}

func (p *TokenPool) Size(ctx context.Context) (int, error) {
	if err := p.ensureLoaded(ctx); err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.entries), nil
}

// Pick returns the next token not cooling down, scanning from the cursor.
func (p *TokenPool) Pick(ctx context.Context) (string, int, error) {
	if err := p.ensureLoaded(ctx); err != nil {
		return "", -1, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.clock.Now()
	n := len(p.entries)
	for i := 0; i < n; i++ {
		idx := (p.cursor + i) % n
		if !p.entries[idx].Available(now) {
			continue
		}
		p.cursor = (idx + 1) % n
		return p.entries[idx].Token, idx, nil
	}

	return "", -1, fmt.Errorf("%w: %d tokens cooling down", domain.ErrPoolExhausted, n)
}

// MarkRateLimited parks the token at index for the cooldown duration and returns the resulting
// cooldown deadline. Overlapping penalties keep the later deadline.
func (p *TokenPool) MarkRateLimited(index int) time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.entries) {
		return time.Time{}
	}

	p.entries[index].Penalize(p.clock.Now().Add(p.cooldown))
	return p.entries[index].CooldownUntil
}

// Status returns masked entries. It does not trigger loading.
func (p *TokenPool) Status() []domain.TokenStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.clock.Now()
	status := make([]domain.TokenStatus, 0, len(p.entries))
	for i, entry := range p.entries {
		status = append(status, domain.TokenStatus{
			Index:         i,
			Token:         domain.MaskToken(entry.Token),
			CooldownUntil: entry.CooldownUntil,
			Cooling:       !entry.Available(now),
		})
	}

	return status
}

func (p *TokenPool) ensureLoaded(ctx context.Context) error {
	p.mu.Lock()
	loaded := p.loaded
	p.mu.Unlock()
	if loaded {
		return nil
	}

	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	p.mu.Lock()
	loaded = p.loaded
	p.mu.Unlock()
	if loaded {
		return nil
	}

	tokens, err := p.source(ctx)
	if err != nil {
		return fmt.Errorf("%w: load external tokens: %w", domain.ErrConfig, err)
	}
	tokens = domain.NormalizeTokens(tokens)
	if len(tokens) == 0 {
		return fmt.Errorf("%w: no external tokens configured", domain.ErrConfig)
	}

	entries := make([]domain.TokenPoolEntry, 0, len(tokens))
	for _, token := range tokens {
		entries = append(entries, domain.TokenPoolEntry{Token: token})
	}

	p.mu.Lock()
	p.entries = entries
	p.cursor = 0
	p.loaded = true
	p.mu.Unlock()

	return nil
}
