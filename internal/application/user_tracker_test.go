package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports/mocks"
)

func sampleResult(vad domain.VAD) AnalysisResult {
	return AnalysisResult{
		Sentiment: domain.SentimentResult{Label: domain.SentimentPositive},
		Emotions:  domain.Distribution{{Label: "joy", Score: 1}},
		VAD:       vad,
		Stress:    domain.StressResult{Score: 0.2, Level: domain.StressLow},
	}
}

func TestUserTrackerFirstEventInitializesState(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	states := &inMemoryStateRepo{}
	events := &inMemoryEventLog{}
	tracker := NewUserTracker(states, events, domain.DefaultTrackerConfig(), 5, fixedClock{now: now}, nil)
	tracker.newID = func() string { return "evt-1" }

	vad := domain.VAD{Valence: 0.8, Arousal: 0.4, Dominance: 0.6}
	state, err := tracker.Update(context.Background(), "u1", "alice", "hello world", sampleResult(vad))
	require.NoError(t, err)

	assert.Equal(t, vad, state.FastEMA)
	assert.Equal(t, vad, state.SlowEMA)
	assert.Equal(t, 1, state.SampleCount)
	assert.Equal(t, "alice", state.Username)

	require.Len(t, events.events, 1)
	event := events.events[0]
	assert.Equal(t, "evt-1", event.ID)
	assert.Equal(t, "hello", event.TextExcerpt)
	assert.Equal(t, domain.HashText("hello world"), event.TextHash)
	assert.Equal(t, now, event.Timestamp)

	stored, err := tracker.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, state, stored)
}

func TestUserTrackerSerializesSameUser(t *testing.T) {
	t.Parallel()

	states := &inMemoryStateRepo{}
	tracker := NewUserTracker(states, &inMemoryEventLog{}, domain.DefaultTrackerConfig(), 0, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tracker.Update(context.Background(), "u1", "", "text", sampleResult(domain.NeutralVAD))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := tracker.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 50, state.SampleCount)
	assert.Zero(t, tracker.locks.size())
}

func TestUserTrackerDifferentUsersDoNotBlock(t *testing.T) {
	t.Parallel()

	tracker := NewUserTracker(&inMemoryStateRepo{}, &inMemoryEventLog{}, domain.DefaultTrackerConfig(), 0, nil, nil)

	unlock := tracker.locks.Lock("u1")
	defer unlock()

	done := make(chan error, 1)
	go func() {
		_, err := tracker.Update(context.Background(), "u2", "", "text", sampleResult(domain.NeutralVAD))
		done <- err
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("update for u2 blocked behind u1")
	}
}

func TestUserTrackerLoadFailureIsPersistenceError(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockUserStateRepository(t)
	repo.EXPECT().GetByID(mockAnyContext(), "u1").Return(domain.UserState{}, errors.New("corrupt file"))
	tracker := NewUserTracker(repo, mocks.NewMockEventLog(t), domain.DefaultTrackerConfig(), 0, nil, nil)

	_, err := tracker.Update(context.Background(), "u1", "", "x", sampleResult(domain.NeutralVAD))

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorContains(t, err, "corrupt file")
}

func TestUserTrackerAppendFailureKeepsSavedState(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	repo := &inMemoryStateRepo{}
	events := mocks.NewMockEventLog(t)
	events.EXPECT().Append(mockAnyContext(), mockAnyContext()).Return(errors.New("db locked"))
	tracker := NewUserTracker(repo, events, domain.DefaultTrackerConfig(), 0, nil, zap.New(core))

	state, err := tracker.Update(context.Background(), "u1", "", "x", sampleResult(domain.NeutralVAD))

	require.NoError(t, err)
	assert.Equal(t, 1, state.SampleCount)
	saved, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, saved.SampleCount)
	assert.Equal(t, 1, logs.FilterMessage("event not logged after state update").Len())
}

func TestUserTrackerSaveFailureSkipsAppend(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(now)
	repo := mocks.NewMockUserStateRepository(t)
	repo.EXPECT().GetByID(mockAnyContext(), "u1").Return(domain.UserState{}, domain.ErrUserNotFound)
	repo.EXPECT().Save(mockAnyContext(), mock.MatchedBy(func(state domain.UserState) bool {
		return state.UserID == "u1" && state.LastUpdate.Equal(now)
	})).Return(errors.New("disk full"))
	// No Append expectation: the mock fails the test if the event is written.
	events := mocks.NewMockEventLog(t)
	tracker := NewUserTracker(repo, events, domain.DefaultTrackerConfig(), 0, clock, nil)

	_, err := tracker.Update(context.Background(), "u1", "", "x", sampleResult(domain.NeutralVAD))

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Contains(t, err.Error(), "disk full")
}

func TestUserTrackerGetUnknownUser(t *testing.T) {
	t.Parallel()

	tracker := NewUserTracker(&inMemoryStateRepo{}, &inMemoryEventLog{}, domain.DefaultTrackerConfig(), 0, nil, nil)

	_, err := tracker.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = tracker.Get(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserTrackerEventsDefaultsLimit(t *testing.T) {
	t.Parallel()

	clock := &manualClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	events := &inMemoryEventLog{}
	tracker := NewUserTracker(&inMemoryStateRepo{}, events, domain.DefaultTrackerConfig(), 10, clock, nil)
	for i := 0; i < domain.DefaultEventLimit+5; i++ {
		_, err := tracker.Update(context.Background(), "u1", "", fmt.Sprintf("text %d", i), sampleResult(domain.NeutralVAD))
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	got, err := tracker.Events(context.Background(), "u1", domain.EventQuery{})
	require.NoError(t, err)
	assert.Len(t, got, domain.DefaultEventLimit)
	assert.Equal(t, "text 204", got[len(got)-1].TextExcerpt)

	_, err = tracker.Events(context.Background(), "u1", domain.EventQuery{
		Start: clock.Now(),
		End:   clock.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
