package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports"
)

type OrchestratorConfig struct {
	Mode        domain.BackendMode
	Online      OnlineSettings
	NeutralMode domain.NeutralMode
}

// ModelInfo names the backend and models that produced a result.
type ModelInfo struct {
	Backend   string `json:"backend"`
	Sentiment string `json:"sentiment"`
	Emotion   string `json:"emotion"`
}

// RawResult is the orchestrator output before canonicalization.
type RawResult struct {
	Sentiment domain.SentimentResult
	Emotions  []domain.LabelScore
	Models    ModelInfo
}

type taskResult struct {
	pairs   []domain.LabelScore
	backend string
	model   string
}

// Orchestrator routes each call to the local classifier or the external provider.
type Orchestrator struct {
	cfg      OrchestratorConfig
	local    ports.Classifier
	external ports.ExternalProvider
	pool     *TokenPool
	limiter  *rate.Limiter
	logger   *zap.Logger
}

func NewOrchestrator(cfg OrchestratorConfig, local ports.Classifier, external ports.ExternalProvider, pool *TokenPool, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if cfg.Online.MaxRPS > 0 {
		limit = rate.Limit(cfg.Online.MaxRPS)
	}

	return &Orchestrator{
		cfg:      cfg,
		local:    local,
		external: external,
		pool:     pool,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger,
	}
}

func (o *Orchestrator) Mode() domain.BackendMode {
	return o.cfg.Mode
}

// Classify returns the raw sentiment and emotion output for text.
func (o *Orchestrator) Classify(ctx context.Context, text string) (RawResult, error) {
	if o.cfg.Mode == domain.BackendOnline && o.cfg.Online.CombinedCall() {
		return o.classifyCombined(ctx, text)
	}

	var sentiment, emotion taskResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := o.classifyTask(gctx, ports.TaskSentiment, text)
		sentiment = res
		return err
	})
	g.Go(func() error {
		res, err := o.classifyTask(gctx, ports.TaskEmotion, text)
		emotion = res
		return err
	})
	if err := g.Wait(); err != nil {
		return RawResult{}, err
	}

	backend := sentiment.backend
	if emotion.backend != backend {
		backend = string(domain.BackendAuto)
	}

	result := RawResult{
		Sentiment: domain.BucketSentiment(sentiment.pairs, o.cfg.NeutralMode),
		Emotions:  emotion.pairs,
		Models:    ModelInfo{Backend: backend, Sentiment: sentiment.model, Emotion: emotion.model},
	}
	result.Sentiment.RawModel = sentiment.model

	return result, nil
}

// classifyCombined issues one external request and derives both outputs from it.
func (o *Orchestrator) classifyCombined(ctx context.Context, text string) (RawResult, error) {
	model := o.cfg.Online.SentimentModel
	pairs, err := o.callExternal(ctx, ports.TaskEmotion, model, text)
	if err != nil {
		return RawResult{}, err
	}

	result := RawResult{
		Sentiment: domain.BucketSentiment(pairs, o.cfg.NeutralMode),
		Emotions:  pairs,
		Models:    ModelInfo{Backend: string(o.providerName()), Sentiment: model, Emotion: model},
	}
	result.Sentiment.RawModel = model

	return result, nil
}

func (o *Orchestrator) classifyTask(ctx context.Context, task ports.Task, text string) (taskResult, error) {
	switch o.cfg.Mode {
	case domain.BackendOnline:
		return o.classifyExternal(ctx, task, text)
	case domain.BackendAuto:
		res, err := o.classifyLocal(ctx, task, text)
		if err == nil {
			return res, nil
		}
		if o.external == nil {
			return taskResult{}, err
		}
		o.logger.Warn("local backend failed, falling back to external",
			zap.String("task", string(task)),
			zap.String("provider", string(o.providerName())),
			zap.Error(err),
		)
		return o.classifyExternal(ctx, task, text)
	default:
		return o.classifyLocal(ctx, task, text)
	}
}

func (o *Orchestrator) classifyLocal(ctx context.Context, task ports.Task, text string) (taskResult, error) {
	if o.local == nil {
		return taskResult{}, fmt.Errorf("%w: local backend is not configured", domain.ErrConfig)
	}

	pairs, err := o.local.Classify(ctx, task, text)
	if err != nil {
		return taskResult{}, fmt.Errorf("%w: local %s: %w", domain.ErrBackend, task, err)
	}

	return taskResult{pairs: pairs, backend: string(domain.BackendLocal), model: o.local.Model(task)}, nil
}

func (o *Orchestrator) classifyExternal(ctx context.Context, task ports.Task, text string) (taskResult, error) {
	model := o.cfg.Online.SentimentModel
	if task == ports.TaskEmotion && o.cfg.Online.EmotionModel != "" {
		model = o.cfg.Online.EmotionModel
	}

	pairs, err := o.callExternal(ctx, task, model, text)
	if err != nil {
		return taskResult{}, err
	}

	return taskResult{pairs: pairs, backend: string(o.providerName()), model: model}, nil
}

// callExternal tries each pool token at most once. Rate-limited tokens are parked and the next
// one is tried; any other provider error is returned at once.
func (o *Orchestrator) callExternal(ctx context.Context, task ports.Task, model, text string) ([]domain.LabelScore, error) {
	if o.external == nil || o.pool == nil {
		return nil, fmt.Errorf("%w: external provider is not configured", domain.ErrConfig)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: external model is not configured", domain.ErrConfig)
	}

	size, err := o.pool.Size(ctx)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < size; attempt++ {
		token, index, err := o.pool.Pick(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrPoolExhausted) {
				if lastErr == nil {
					lastErr = err
				}
				break
			}
			return nil, err
		}

		if err := o.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: wait for external rate limiter: %w", domain.ErrBackend, err)
		}

		pairs, err := o.attempt(ctx, ports.ExternalRequest{
			Token: token,
			Model: model,
			Task:  task,
			Text:  text,
			GPU:   o.cfg.Online.GPU,
		})
		if err == nil {
			return pairs, nil
		}

		if !errors.Is(err, domain.ErrRateLimited) {
			o.logger.Error("external provider failed",
				zap.String("provider", string(o.providerName())),
				zap.String("task", string(task)),
				zap.Int("token_index", index),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrBackend, o.providerName(), task, err)
		}

		until := o.pool.MarkRateLimited(index)
		o.logger.Warn("external token rate limited",
			zap.String("provider", string(o.providerName())),
			zap.Int("token_index", index),
			zap.Time("cooldown_until", until),
		)
		lastErr = err
	}

	if lastErr == nil {
		lastErr = domain.ErrPoolExhausted
	}
	o.logger.Error("external tokens exhausted",
		zap.String("provider", string(o.providerName())),
		zap.String("task", string(task)),
		zap.Int("pool_size", size),
		zap.Error(lastErr),
	)

	return nil, fmt.Errorf("%w: %w", domain.ErrRateLimitExhausted, lastErr)
}

func (o *Orchestrator) attempt(ctx context.Context, req ports.ExternalRequest) ([]domain.LabelScore, error) {
	if timeout := o.cfg.Online.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	pairs, err := o.external.Classify(ctx, req)
	o.logger.Debug("external attempt",
		zap.String("task", string(req.Task)),
		zap.String("model", req.Model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ok", err == nil),
	)

	return pairs, err
}

func (o *Orchestrator) providerName() domain.Provider {
	if o.external == nil {
		return o.cfg.Online.Provider
	}
	return o.external.Name()
}

// Models describes the configured backend for status output.
func (o *Orchestrator) Models() ModelInfo {
	switch o.cfg.Mode {
	case domain.BackendOnline:
		return ModelInfo{Backend: string(domain.BackendOnline), Sentiment: o.cfg.Online.SentimentModel, Emotion: o.cfg.Online.EmotionModel}
	default:
		info := ModelInfo{Backend: string(o.cfg.Mode)}
		if o.local != nil {
			info.Sentiment = o.local.Model(ports.TaskSentiment)
			info.Emotion = o.local.Model(ports.TaskEmotion)
		}
		return info
	}
}
