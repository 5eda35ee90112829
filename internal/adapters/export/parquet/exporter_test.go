package parquet

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/sentra-emo/internal/domain"
)

func TestExporterWritesReadableParquet(t *testing.T) {
	t.Parallel()

	storeDir := t.TempDir()
	exporter, err := NewExporter(storeDir)
	require.NoError(t, err)
	assert.Equal(t, "parquet", exporter.Format())

	at := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	events := []domain.EmotionEvent{
		{
			ID:             "e1",
			UserID:         "alice",
			Timestamp:      at,
			TextExcerpt:    "great",
			TextHash:       domain.HashText("great"),
			SentimentLabel: domain.SentimentPositive,
			VAD:            domain.VAD{Valence: 0.9, Arousal: 0.6, Dominance: 0.7},
			Stress:         domain.StressResult{Score: 0.2, Level: domain.StressLow},
			Emotions:       domain.Distribution{{Label: "joy", Score: 0.9}, {Label: "love", Score: 0.1}},
		},
		{
			ID:        "e2",
			UserID:    "alice",
			Timestamp: at.Add(time.Hour),
			Stress:    domain.StressResult{Score: 0.8, Level: domain.StressHigh},
		},
	}

	path, err := exporter.Export(context.Background(), "alice", events)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(storeDir, "exports", "alice.parquet"), path)

	rows, err := parquet.ReadFile[eventRow](path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "e1", rows[0].ID)
	assert.True(t, at.Equal(rows[0].Timestamp))
	assert.Equal(t, "joy", rows[0].TopEmotion)
	assert.Equal(t, []emotionRow{{Label: "joy", Score: 0.9}, {Label: "love", Score: 0.1}}, rows[0].Emotions)
	assert.Equal(t, "high", rows[1].StressLevel)
	assert.Empty(t, rows[1].TopEmotion)
}

func TestExporterRejectsBlankUser(t *testing.T) {
	t.Parallel()

	exporter, err := NewExporter(t.TempDir())
	require.NoError(t, err)

	_, err = exporter.Export(context.Background(), "", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
