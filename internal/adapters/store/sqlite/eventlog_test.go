package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/sentra-emo/internal/domain"
)

var baseTime = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func openTestLog(t *testing.T) *EventLog {
	t.Helper()

	log, err := Open(filepath.Join(t.TempDir(), "events.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func testEvent(userID string, i int) domain.EmotionEvent {
	return domain.EmotionEvent{
		ID:             fmt.Sprintf("%s-%02d", userID, i),
		UserID:         userID,
		Timestamp:      baseTime.Add(time.Duration(i) * time.Minute),
		TextExcerpt:    "hello",
		TextHash:       domain.HashText("hello"),
		SentimentLabel: domain.SentimentPositive,
		VAD:            domain.VAD{Valence: 0.7, Arousal: 0.4, Dominance: 0.6},
		Stress:         domain.StressResult{Score: 0.3, Level: domain.StressLow},
		Emotions:       domain.Distribution{{Label: "joy", Score: 0.8}, {Label: "love", Score: 0.2}},
	}
}

func TestEventLogAppendAndList(t *testing.T) {
	t.Parallel()

	log := openTestLog(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, log.Append(ctx, testEvent("alice", i)))
	}
	require.NoError(t, log.Append(ctx, testEvent("bob", 0)))

	events, err := log.List(ctx, "alice", domain.EventQuery{})
	require.NoError(t, err)
	require.Len(t, events, 5)
	assert.Equal(t, testEvent("alice", 0), events[0])
	assert.Equal(t, "alice-04", events[4].ID)

	n, err := log.Count(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEventLogListKeepsNewestWithinLimit(t *testing.T) {
	t.Parallel()

	log := openTestLog(t)
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		require.NoError(t, log.Append(ctx, testEvent("alice", i)))
	}

	events, err := log.List(ctx, "alice", domain.EventQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "alice-04", events[0].ID)
	assert.Equal(t, "alice-05", events[1].ID)
}

func TestEventLogListInclusiveWindow(t *testing.T) {
	t.Parallel()

	log := openTestLog(t)
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		require.NoError(t, log.Append(ctx, testEvent("alice", i)))
	}

	events, err := log.List(ctx, "alice", domain.EventQuery{
		Start: baseTime.Add(time.Minute),
		End:   baseTime.Add(3 * time.Minute),
	})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "alice-01", events[0].ID)
	assert.Equal(t, "alice-03", events[2].ID)

	events, err = log.List(ctx, "nobody", domain.EventQuery{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventLogRejectsDuplicateIDsAndBlankUsers(t *testing.T) {
	t.Parallel()

	log := openTestLog(t)
	ctx := context.Background()
	require.NoError(t, log.Append(ctx, testEvent("alice", 0)))
	assert.Error(t, log.Append(ctx, testEvent("alice", 0)))

	event := testEvent("alice", 1)
	event.UserID = ""
	assert.ErrorIs(t, log.Append(ctx, event), domain.ErrValidation)
}

func TestEventLogPersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "events.db")
	log, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, log.Append(context.Background(), testEvent("alice", 0)))
	require.NoError(t, log.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	events, err := reopened.List(context.Background(), "alice", domain.EventQuery{})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
