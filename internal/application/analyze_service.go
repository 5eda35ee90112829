package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/sentra-emo/internal/domain"
)

const batchConcurrency = 4

// AnalyzeService runs the full pipeline for one text or a batch: classification, affect
// derivation, the optional user update and metrics.
type AnalyzeService struct {
	orchestrator *Orchestrator
	deriver      *AffectDeriver
	tracker      *UserTracker
	metrics      *Metrics
	logger       *zap.Logger
}

func NewAnalyzeService(orchestrator *Orchestrator, deriver *AffectDeriver, tracker *UserTracker, metrics *Metrics, logger *zap.Logger) *AnalyzeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics(DefaultMetricsCapacity, nil)
	}

	return &AnalyzeService{
		orchestrator: orchestrator,
		deriver:      deriver,
		tracker:      tracker,
		metrics:      metrics,
		logger:       logger,
	}
}

func (s *AnalyzeService) Analyze(ctx context.Context, cmd AnalyzeCommand) (AnalysisResult, error) {
	cmd, err := cmd.normalize()
	if err != nil {
		return AnalysisResult{}, err
	}

	start := time.Now()
	raw, err := s.orchestrator.Classify(ctx, cmd.Text)
	if err != nil {
		s.fail(time.Since(start), len(cmd.Text), err)
		return AnalysisResult{}, err
	}

	return s.finish(ctx, start, cmd.Text, cmd.UserID, cmd.Username, raw), nil
}

// AnalyzeBatch classifies texts concurrently, then derives results and updates the user in
// input order. The first classification failure aborts the batch.
func (s *AnalyzeService) AnalyzeBatch(ctx context.Context, cmd AnalyzeBatchCommand) ([]AnalysisResult, error) {
	cmd, err := cmd.normalize()
	if err != nil {
		return nil, err
	}

	raws := make([]RawResult, len(cmd.Texts))
	starts := make([]time.Time, len(cmd.Texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, text := range cmd.Texts {
		g.Go(func() error {
			starts[i] = time.Now()
			raw, err := s.orchestrator.Classify(gctx, text)
			if err != nil {
				s.fail(time.Since(starts[i]), len(text), err)
				return err
			}
			raws[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]AnalysisResult, 0, len(cmd.Texts))
	for i, text := range cmd.Texts {
		results = append(results, s.finish(ctx, starts[i], text, cmd.UserID, cmd.Username, raws[i]))
	}

	return results, nil
}

func (s *AnalyzeService) finish(ctx context.Context, start time.Time, text, userID, username string, raw RawResult) AnalysisResult {
	affect := s.deriver.Derive(raw.Emotions)
	result := AnalysisResult{
		Sentiment: raw.Sentiment,
		Emotions:  affect.Emotions,
		VAD:       affect.VAD,
		PAD:       affect.PAD,
		Stress:    affect.Stress,
		Models:    raw.Models,
	}

	if userID != "" && s.tracker != nil {
		state, err := s.tracker.Update(ctx, userID, username, text, result)
		if err != nil {
			s.logger.Warn("user state update failed",
				zap.String("userid", userID),
				zap.Error(err),
			)
		} else {
			result.User = &state
		}
	}

	result.Latency = time.Since(start)
	s.metrics.ObserveInference(result.Latency, false)
	s.metrics.ObserveTopScore(affect.Top.Score)

	s.logger.Info("analyze ok",
		zap.Float64("latency_ms", float64(result.Latency)/float64(time.Millisecond)),
		zap.String("sentiment", result.Sentiment.Label),
		zap.String("stress", string(result.Stress.Level)),
		zap.Float64("valence", result.VAD.Valence),
		zap.Float64("arousal", result.VAD.Arousal),
		zap.Float64("dominance", result.VAD.Dominance),
		zap.Int("text_len", len(text)),
	)

	return result
}

func (s *AnalyzeService) fail(latency time.Duration, textLen int, err error) {
	s.metrics.ObserveInference(latency, true)
	if errors.Is(err, context.Canceled) {
		s.logger.Warn("analyze canceled", zap.Int("text_len", textLen), zap.Error(err))
		return
	}
	s.logger.Error("analyze failed",
		zap.Float64("latency_ms", float64(latency)/float64(time.Millisecond)),
		zap.Int("text_len", textLen),
		zap.Error(err),
	)
}

func (s *AnalyzeService) Metrics() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// Status reports the configured backend, models, tokens and table sources.
func (s *AnalyzeService) Status(sources TableSources) StatusReport {
	report := StatusReport{
		Backend:       string(s.orchestrator.Mode()),
		Models:        s.orchestrator.Models(),
		VADSource:     sources.VAD,
		VADLabels:     s.deriver.TableSize(),
		AliasSource:   sources.Aliases,
		AliasCount:    s.deriver.AliasCount(),
		UnknownLabels: s.deriver.UnknownLabels(),
	}
	if s.orchestrator.Mode() != domain.BackendLocal {
		report.Provider = string(s.orchestrator.providerName())
		if s.orchestrator.pool != nil {
			report.Tokens = s.orchestrator.pool.Status()
		}
	}

	return report
}

// TableSources names where the VAD and alias tables were loaded from.
type TableSources struct {
	VAD     string
	Aliases string
}
