package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/sentra-emo/internal/domain"
)

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func mockAnyContext() interface{} {
	return mock.Anything
}

type inMemoryStateRepo struct {
	mu      sync.Mutex
	states  map[string]domain.UserState
	saveErr error
}

func (r *inMemoryStateRepo) GetByID(_ context.Context, userID string) (domain.UserState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[userID]
	if !ok {
		return domain.UserState{}, domain.ErrUserNotFound
	}
	return state, nil
}

func (r *inMemoryStateRepo) Save(_ context.Context, state domain.UserState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return r.saveErr
	}
	if r.states == nil {
		r.states = map[string]domain.UserState{}
	}
	r.states[state.UserID] = state
	return nil
}

type inMemoryEventLog struct {
	mu     sync.Mutex
	events []domain.EmotionEvent
}

func (l *inMemoryEventLog) Append(_ context.Context, event domain.EmotionEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

func (l *inMemoryEventLog) List(_ context.Context, userID string, query domain.EventQuery) ([]domain.EmotionEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.EmotionEvent, 0)
	for _, event := range l.events {
		if event.UserID == userID && query.Matches(event.Timestamp) {
			out = append(out, event)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[len(out)-query.Limit:]
	}
	return out, nil
}

var testVADTable = domain.VADTable{
	"joy":     {Valence: 0.9, Arousal: 0.5, Dominance: 0.5},
	"anger":   {Valence: 0.1, Arousal: 0.8, Dominance: 0.6},
	"sadness": {Valence: 0.2, Arousal: 0.3, Dominance: 0.3},
}

func newTestDeriver() *AffectDeriver {
	return NewAffectDeriver(domain.Canonicalizer{UseAliases: true, Aliases: domain.AliasTable{"happy": "joy"}}, testVADTable, domain.DefaultStressConfig())
}
