// Package parquet writes a user's event log to a Parquet file.
package parquet

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports"
)

const (
	Format     = "parquet"
	exportsDir = "exports"
)

type emotionRow struct {
	Label string  `parquet:"label"`
	Score float64 `parquet:"score"`
}

type eventRow struct {
	ID          string       `parquet:"id"`
	UserID      string       `parquet:"userid"`
	Timestamp   time.Time    `parquet:"ts"`
	TextExcerpt string       `parquet:"text_excerpt"`
	TextHash    string       `parquet:"text_hash"`
	Sentiment   string       `parquet:"sentiment"`
	Valence     float64      `parquet:"valence"`
	Arousal     float64      `parquet:"arousal"`
	Dominance   float64      `parquet:"dominance"`
	StressScore float64      `parquet:"stress_score"`
	StressLevel string       `parquet:"stress_level"`
	TopEmotion  string       `parquet:"top_emotion"`
	Emotions    []emotionRow `parquet:"emotions,list"`
}

// Exporter writes <dir>/exports/<userid>.parquet, replacing any previous export.
type Exporter struct {
	dir string
}

var _ ports.EventExporter = (*Exporter)(nil)

func NewExporter(storeDir string) (*Exporter, error) {
	dir, err := filepath.Abs(filepath.Join(storeDir, exportsDir))
	if err != nil {
		return nil, fmt.Errorf("resolve export directory: %w", err)
	}
	return &Exporter{dir: dir}, nil
}

func (*Exporter) Format() string {
	return Format
}

func (e *Exporter) Export(ctx context.Context, userID string, events []domain.EmotionEvent) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := domain.ValidateUserID(userID); err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.dir, 0o700); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	rows := make([]eventRow, 0, len(events))
	for _, event := range events {
		rows = append(rows, toRow(event))
	}

	path := filepath.Join(e.dir, url.PathEscape(userID)+"."+Format)
	tmp := path + ".tmp"
	if err := parquet.WriteFile(tmp, rows); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write parquet export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("replace parquet export: %w", err)
	}

	return path, nil
}

func toRow(event domain.EmotionEvent) eventRow {
	emotions := make([]emotionRow, 0, len(event.Emotions))
	for _, ls := range event.Emotions {
		emotions = append(emotions, emotionRow{Label: ls.Label, Score: ls.Score})
	}

	top := ""
	if best, ok := event.Emotions.Top(); ok {
		top = best.Label
	}

	return eventRow{
		ID:          event.ID,
		UserID:      event.UserID,
		Timestamp:   event.Timestamp.UTC(),
		TextExcerpt: event.TextExcerpt,
		TextHash:    event.TextHash,
		Sentiment:   event.SentimentLabel,
		Valence:     event.VAD.Valence,
		Arousal:     event.VAD.Arousal,
		Dominance:   event.VAD.Dominance,
		StressScore: event.Stress.Score,
		StressLevel: string(event.Stress.Level),
		TopEmotion:  top,
		Emotions:    emotions,
	}
}
