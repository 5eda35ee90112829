// Package sqlite keeps the per-user emotion event log in an SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	userid TEXT NOT NULL,
	ts INTEGER NOT NULL,
	text_excerpt TEXT NOT NULL DEFAULT '',
	text_hash TEXT NOT NULL,
	sentiment TEXT NOT NULL DEFAULT '',
	valence REAL NOT NULL,
	arousal REAL NOT NULL,
	dominance REAL NOT NULL,
	stress_score REAL NOT NULL,
	stress_level TEXT NOT NULL,
	emotions TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_events_user_ts ON events(userid, ts);
`

type EventLog struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ ports.EventLog = (*EventLog)(nil)

// Open creates the database file and schema when missing. Use ":memory:" for an ephemeral log.
func Open(path string, logger *zap.Logger) (*EventLog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("%w: create event log directory: %w", domain.ErrPersistence, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open event log: %w", domain.ErrPersistence, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			logger.Debug("sqlite pragma failed", zap.String("pragma", pragma), zap.Error(err))
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: initialize event log schema: %w", domain.ErrPersistence, err)
	}

	logger.Debug("event log opened", zap.String("path", path))
	return &EventLog{db: db, logger: logger}, nil
}

func (l *EventLog) Close() error {
	return l.db.Close()
}

func (l *EventLog) Append(ctx context.Context, event domain.EmotionEvent) error {
	if err := domain.ValidateUserID(event.UserID); err != nil {
		return err
	}

	emotions, err := json.Marshal(event.Emotions)
	if err != nil {
		return fmt.Errorf("encode event emotions: %w", err)
	}
	if event.Emotions == nil {
		emotions = []byte("[]")
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO events (id, userid, ts, text_excerpt, text_hash, sentiment,
			valence, arousal, dominance, stress_score, stress_level, emotions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.UserID, event.Timestamp.UTC().UnixNano(), event.TextExcerpt, event.TextHash,
		event.SentimentLabel, event.VAD.Valence, event.VAD.Arousal, event.VAD.Dominance,
		event.Stress.Score, string(event.Stress.Level), string(emotions),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// List selects the newest matching rows first so the limit keeps the most recent events, then
// returns them oldest first.
func (l *EventLog) List(ctx context.Context, userID string, query domain.EventQuery) ([]domain.EmotionEvent, error) {
	start := int64(math.MinInt64)
	if !query.Start.IsZero() {
		start = query.Start.UTC().UnixNano()
	}
	end := int64(math.MaxInt64)
	if !query.End.IsZero() {
		end = query.End.UTC().UnixNano()
	}
	limit := int64(-1)
	if query.Limit > 0 {
		limit = int64(query.Limit)
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, userid, ts, text_excerpt, text_hash, sentiment,
			valence, arousal, dominance, stress_score, stress_level, emotions
		FROM events
		WHERE userid = ? AND ts >= ? AND ts <= ?
		ORDER BY ts DESC, rowid DESC
		LIMIT ?`,
		userID, start, end, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	events := make([]domain.EmotionEvent, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

func scanEvent(rows *sql.Rows) (domain.EmotionEvent, error) {
	var (
		event    domain.EmotionEvent
		ts       int64
		level    string
		emotions string
	)
	err := rows.Scan(
		&event.ID, &event.UserID, &ts, &event.TextExcerpt, &event.TextHash, &event.SentimentLabel,
		&event.VAD.Valence, &event.VAD.Arousal, &event.VAD.Dominance,
		&event.Stress.Score, &level, &emotions,
	)
	if err != nil {
		return domain.EmotionEvent{}, fmt.Errorf("scan event: %w", err)
	}

	event.Timestamp = time.Unix(0, ts).UTC()
	event.Stress.Level = domain.StressLevel(level)
	if err := json.Unmarshal([]byte(emotions), &event.Emotions); err != nil {
		return domain.EmotionEvent{}, fmt.Errorf("decode event %s emotions: %w", event.ID, err)
	}
	return event, nil
}

// Count reports how many events a user has.
func (l *EventLog) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE userid = ?`, userID).Scan(&n)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
