package ports

import (
	"context"

	"github.com/bnema/sentra-emo/internal/domain"
)

type Task string

const (
	TaskSentiment Task = "sentiment"
	TaskEmotion   Task = "emotion"
)

// Classifier is the local inference backend. It returns raw label scores for one task.
type Classifier interface {
	Classify(ctx context.Context, task Task, text string) ([]domain.LabelScore, error)
	Model(task Task) string
}

type ExternalRequest struct {
	Token string
	Model string
	Task  Task
	Text  string
	GPU   bool
}

// ExternalProvider is a rate-limited hosted API. Rate-limit responses must wrap
// domain.ErrRateLimited so callers can rotate tokens.
type ExternalProvider interface {
	Name() domain.Provider
	Classify(ctx context.Context, req ExternalRequest) ([]domain.LabelScore, error)
}
