package application

import (
	"time"

	"github.com/bnema/sentra-emo/internal/domain"
)

// AnalysisResult is the outcome of analyzing one text. User is nil when no user id was given
// or the user update failed.
type AnalysisResult struct {
	Sentiment domain.SentimentResult `json:"sentiment"`
	Emotions  domain.Distribution    `json:"emotions"`
	VAD       domain.VAD             `json:"vad"`
	PAD       domain.PAD             `json:"pad"`
	Stress    domain.StressResult    `json:"stress"`
	Models    ModelInfo              `json:"models"`
	User      *domain.UserState      `json:"user,omitempty"`
	Latency   time.Duration          `json:"-"`
}

// AnalyticsQuery selects the analytics window. Explicit bounds override Days.
type AnalyticsQuery struct {
	Days  int
	Start time.Time
	End   time.Time
}

type ExportResult struct {
	Status string `json:"status"`
	Path   string `json:"path"`
	Format string `json:"format"`
	Events int    `json:"events"`
}

type StatusReport struct {
	Backend       string               `json:"backend"`
	Provider      string               `json:"provider,omitempty"`
	Models        ModelInfo            `json:"models"`
	Tokens        []domain.TokenStatus `json:"tokens,omitempty"`
	VADSource     string               `json:"vad_source"`
	VADLabels     int                  `json:"vad_labels"`
	AliasSource   string               `json:"alias_source"`
	AliasCount    int                  `json:"alias_count"`
	UnknownLabels []string             `json:"unknown_labels"`
}
