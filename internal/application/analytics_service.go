package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports"
)

type AnalyticsConfig struct {
	MaxEvents   int
	TopK        int
	ValenceCuts domain.ValenceCuts
	Personality domain.PersonalityConfig
}

// AnalyticsService summarizes event windows and exports event logs.
type AnalyticsService struct {
	events      ports.EventLog
	exporter    ports.EventExporter
	personality ports.PersonalityClassifier
	cfg         AnalyticsConfig
	clock       ports.Clock
	logger      *zap.Logger
}

// NewAnalyticsService uses the heuristic personality classifier when personality is nil.
func NewAnalyticsService(events ports.EventLog, exporter ports.EventExporter, personality ports.PersonalityClassifier, cfg AnalyticsConfig, clock ports.Clock, logger *zap.Logger) *AnalyticsService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxEvents <= 0 {
		cfg.MaxEvents = domain.DefaultAnalyticsMaxEvents
	}

	return &AnalyticsService{
		events:      events,
		exporter:    exporter,
		personality: personality,
		cfg:         cfg,
		clock:       clock,
		logger:      logger,
	}
}

func (s *AnalyticsService) Summary(ctx context.Context, userID string, query AnalyticsQuery) (domain.AnalyticsSummary, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return domain.AnalyticsSummary{}, err
	}

	start, end, err := s.window(query)
	if err != nil {
		return domain.AnalyticsSummary{}, err
	}

	events, err := s.events.List(ctx, userID, domain.EventQuery{Start: start, End: end, Limit: s.cfg.MaxEvents})
	if err != nil {
		return domain.AnalyticsSummary{}, fmt.Errorf("%w: list events for %s: %w", domain.ErrPersistence, userID, err)
	}

	summary := domain.Summarize(userID, events, start, end, s.cfg.ValenceCuts, s.cfg.TopK)
	personality := s.classify(ctx, summary)
	summary.Personality = &personality

	return summary, nil
}

// classify falls back to the heuristic when the external classifier fails.
func (s *AnalyticsService) classify(ctx context.Context, summary domain.AnalyticsSummary) domain.PersonalityResult {
	if s.personality == nil {
		return domain.ClassifyPersonality(summary, s.cfg.Personality)
	}

	result, err := s.personality.Classify(ctx, summary)
	if err != nil {
		s.logger.Warn("external personality classifier failed, using heuristic",
			zap.String("userid", summary.UserID),
			zap.Error(err),
		)
		return domain.ClassifyPersonality(summary, s.cfg.Personality)
	}
	if result.Method == "" {
		result.Method = domain.PersonalityExternal
	}

	return result
}

func (s *AnalyticsService) window(query AnalyticsQuery) (time.Time, time.Time, error) {
	days := query.Days
	if days <= 0 {
		days = domain.DefaultAnalyticsDays
	}
	span := time.Duration(days) * 24 * time.Hour

	start, end := query.Start, query.End
	switch {
	case start.IsZero() && end.IsZero():
		end = s.clock.Now()
		start = end.Add(-span)
	case end.IsZero():
		end = s.clock.Now()
	case start.IsZero():
		start = end.Add(-span)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end is before start", domain.ErrValidation)
	}

	return start, end, nil
}

// Export writes the full event log of a user through the exporter.
func (s *AnalyticsService) Export(ctx context.Context, cmd ExportCommand) (ExportResult, error) {
	if err := domain.ValidateUserID(cmd.UserID); err != nil {
		return ExportResult{}, err
	}
	if s.exporter == nil {
		return ExportResult{}, fmt.Errorf("%w: no exporter configured", domain.ErrConfig)
	}

	events, err := s.events.List(ctx, cmd.UserID, domain.EventQuery{})
	if err != nil {
		return ExportResult{}, fmt.Errorf("%w: list events for %s: %w", domain.ErrPersistence, cmd.UserID, err)
	}

	path, err := s.exporter.Export(ctx, cmd.UserID, events)
	if err != nil {
		return ExportResult{}, fmt.Errorf("%w: export events for %s: %w", domain.ErrPersistence, cmd.UserID, err)
	}

	s.logger.Info("events exported",
		zap.String("userid", cmd.UserID),
		zap.String("path", path),
		zap.Int("events", len(events)),
	)

	return ExportResult{Status: "success", Path: path, Format: s.exporter.Format(), Events: len(events)}, nil
}
