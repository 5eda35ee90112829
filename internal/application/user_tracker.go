package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports"
)

// UserTracker folds analysis results into per-user state and the event log. Updates for one
// user serialize while different users proceed in parallel.
type UserTracker struct {
	states       ports.UserStateRepository
	events       ports.EventLog
	cfg          domain.TrackerConfig
	excerptChars int
	clock        ports.Clock
	newID        func() string
	logger       *zap.Logger
	locks        keyedMutex
}

func NewUserTracker(states ports.UserStateRepository, events ports.EventLog, cfg domain.TrackerConfig, excerptChars int, clock ports.Clock, logger *zap.Logger) *UserTracker {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &UserTracker{
		states:       states,
		events:       events,
		cfg:          cfg,
		excerptChars: excerptChars,
		clock:        clock,
		newID:        uuid.NewString,
		logger:       logger,
		locks:        keyedMutex{locks: map[string]*keyedLock{}},
	}
}

// Update records text and its analysis for userID and returns the new state.
func (t *UserTracker) Update(ctx context.Context, userID, username, text string, result AnalysisResult) (domain.UserState, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return domain.UserState{}, err
	}

	unlock := t.locks.Lock(userID)
	defer unlock()

	now := t.clock.Now()
	obs := domain.Observation{
		Username:  username,
		VAD:       result.VAD,
		Emotions:  result.Emotions,
		Sentiment: result.Sentiment.Label,
		Stress:    result.Stress,
		At:        now,
	}

	state, err := t.states.GetByID(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		state = domain.NewUserState(userID, obs, t.cfg)
	case err != nil:
		return domain.UserState{}, fmt.Errorf("%w: load user %s: %w", domain.ErrPersistence, userID, err)
	default:
		state.Apply(obs, t.cfg)
	}

	event := domain.EmotionEvent{
		ID:             t.newID(),
		UserID:         userID,
		Timestamp:      now,
		TextExcerpt:    domain.Excerpt(text, t.excerptChars),
		TextHash:       domain.HashText(text),
		SentimentLabel: result.Sentiment.Label,
		VAD:            result.VAD,
		Stress:         result.Stress,
		Emotions:       result.Emotions,
	}
	// The state is saved first so the event log never holds events the state did not absorb.
	if err := t.states.Save(ctx, state); err != nil {
		return domain.UserState{}, fmt.Errorf("%w: save user %s: %w", domain.ErrPersistence, userID, err)
	}
	if err := t.events.Append(ctx, event); err != nil {
		t.logger.Warn("event not logged after state update",
			zap.String("userid", userID),
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
	}

	t.logger.Debug("user state updated",
		zap.String("userid", userID),
		zap.Int("samples", state.SampleCount),
		zap.Float64("fast_valence", state.FastEMA.Valence),
		zap.Float64("slow_valence", state.SlowEMA.Valence),
	)

	return state, nil
}

func (t *UserTracker) Get(ctx context.Context, userID string) (domain.UserState, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return domain.UserState{}, err
	}

	state, err := t.states.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.UserState{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
		}
		return domain.UserState{}, fmt.Errorf("%w: load user %s: %w", domain.ErrPersistence, userID, err)
	}

	return state, nil
}

// Events lists the event log of userID. A zero limit uses domain.DefaultEventLimit.
func (t *UserTracker) Events(ctx context.Context, userID string, query domain.EventQuery) ([]domain.EmotionEvent, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if query.Limit <= 0 {
		query.Limit = domain.DefaultEventLimit
	}
	if !query.Start.IsZero() && !query.End.IsZero() && query.End.Before(query.Start) {
		return nil, fmt.Errorf("%w: end is before start", domain.ErrValidation)
	}

	events, err := t.events.List(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list events for %s: %w", domain.ErrPersistence, userID, err)
	}

	return events, nil
}

type keyedLock struct {
	sync.Mutex
	refs int
}

// keyedMutex hands out one mutex per key and drops it once no caller holds or waits on it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &keyedLock{}
		k.locks[key] = lock
	}
	lock.refs++
	k.mu.Unlock()

	lock.Lock()

	return func() {
		lock.Unlock()

		k.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
