package ports

import (
	"context"

	"github.com/bnema/sentra-emo/internal/domain"
)

// UserStateRepository returns domain.ErrUserNotFound for unknown ids.
type UserStateRepository interface {
	GetByID(ctx context.Context, userID string) (domain.UserState, error)
	Save(ctx context.Context, state domain.UserState) error
}

// EventLog is append-only. List returns events in ascending time order, keeping the newest
// ones when a limit applies. A non-positive limit returns every matching event.
type EventLog interface {
	Append(ctx context.Context, event domain.EmotionEvent) error
	List(ctx context.Context, userID string, query domain.EventQuery) ([]domain.EmotionEvent, error)
}

// EventExporter writes events to a columnar file and returns its path.
type EventExporter interface {
	Export(ctx context.Context, userID string, events []domain.EmotionEvent) (string, error)
	Format() string
}

type PersonalityClassifier interface {
	Classify(ctx context.Context, summary domain.AnalyticsSummary) (domain.PersonalityResult, error)
}
