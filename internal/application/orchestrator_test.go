package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports"
	"github.com/bnema/sentra-emo/internal/ports/mocks"
)

func onlineConfig(sentimentModel, emotionModel string) OrchestratorConfig {
	return OrchestratorConfig{
		Mode: domain.BackendOnline,
		Online: OnlineSettings{
			Provider:       domain.ProviderNLPCloud,
			SentimentModel: sentimentModel,
			EmotionModel:   emotionModel,
			Timeout:        time.Second,
		},
		NeutralMode: domain.NeutralAuto,
	}
}

func newPool(tokens ...string) *TokenPool {
	return NewTokenPool(StaticTokens(tokens), time.Minute, fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)})
}

func TestOrchestratorLocalRunsBothTasks(t *testing.T) {
	t.Parallel()

	local := mocks.NewMockClassifier(t)
	local.EXPECT().Classify(mockAnyContext(), ports.TaskSentiment, "great day").
		Return([]domain.LabelScore{{Label: "POSITIVE", Score: 0.9}, {Label: "NEGATIVE", Score: 0.1}}, nil)
	local.EXPECT().Classify(mockAnyContext(), ports.TaskEmotion, "great day").
		Return([]domain.LabelScore{{Label: "joy", Score: 0.8}}, nil)
	local.EXPECT().Model(ports.TaskSentiment).Return("local-sentiment")
	local.EXPECT().Model(ports.TaskEmotion).Return("local-emotion")

	o := NewOrchestrator(OrchestratorConfig{Mode: domain.BackendLocal}, local, nil, nil, nil)

	got, err := o.Classify(context.Background(), "great day")
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentPositive, got.Sentiment.Label)
	assert.Equal(t, "local-sentiment", got.Sentiment.RawModel)
	assert.Equal(t, []domain.LabelScore{{Label: "joy", Score: 0.8}}, got.Emotions)
	assert.Equal(t, ModelInfo{Backend: "local", Sentiment: "local-sentiment", Emotion: "local-emotion"}, got.Models)
}

func TestOrchestratorLocalFailureIsBackendError(t *testing.T) {
	t.Parallel()

	local := mocks.NewMockClassifier(t)
	local.EXPECT().Classify(mockAnyContext(), mock.Anything, "x").Return(nil, errors.New("model crashed")).Maybe()
	local.EXPECT().Model(mock.Anything).Return("m").Maybe()

	o := NewOrchestrator(OrchestratorConfig{Mode: domain.BackendLocal}, local, nil, nil, nil)

	_, err := o.Classify(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrBackend)
	assert.ErrorContains(t, err, "model crashed")
}

func TestOrchestratorOnlineCombinedUsesOneCall(t *testing.T) {
	t.Parallel()

	external := mocks.NewMockExternalProvider(t)
	external.EXPECT().Name().Return(domain.ProviderNLPCloud).Maybe()
	external.EXPECT().Classify(mockAnyContext(), ports.ExternalRequest{
		Token: "tok-a", Model: "distilbert", Task: ports.TaskEmotion, Text: "ugh",
	}).Return([]domain.LabelScore{{Label: "anger", Score: 0.7}, {Label: "joy", Score: 0.3}}, nil).Once()

	o := NewOrchestrator(onlineConfig("distilbert", "distilbert"), nil, external, newPool("tok-a"), nil)

	got, err := o.Classify(context.Background(), "ugh")
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentNegative, got.Sentiment.Label)
	assert.InDelta(t, 0.7, got.Sentiment.Scores[domain.SentimentNegative], 1e-9)
	assert.Len(t, got.Emotions, 2)
	assert.Equal(t, "distilbert", got.Models.Emotion)
}

func TestOrchestratorOnlineSeparateModels(t *testing.T) {
	t.Parallel()

	external := mocks.NewMockExternalProvider(t)
	external.EXPECT().Name().Return(domain.ProviderNLPCloud).Maybe()
	external.EXPECT().Classify(mockAnyContext(), mock.MatchedBy(func(req ports.ExternalRequest) bool {
		return req.Task == ports.TaskSentiment && req.Model == "sent"
	})).Return([]domain.LabelScore{{Label: "POSITIVE", Score: 1}}, nil).Once()
	external.EXPECT().Classify(mockAnyContext(), mock.MatchedBy(func(req ports.ExternalRequest) bool {
		return req.Task == ports.TaskEmotion && req.Model == "emo"
	})).Return([]domain.LabelScore{{Label: "joy", Score: 1}}, nil).Once()

	o := NewOrchestrator(onlineConfig("sent", "emo"), nil, external, newPool("a", "b"), nil)

	got, err := o.Classify(context.Background(), "yay")
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentPositive, got.Sentiment.Label)
	assert.Equal(t, ModelInfo{Backend: "nlpcloud", Sentiment: "sent", Emotion: "emo"}, got.Models)
}

func TestOrchestratorRotatesOnRateLimit(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	external := mocks.NewMockExternalProvider(t)
	external.EXPECT().Name().Return(domain.ProviderNLPCloud).Maybe()
	external.EXPECT().Classify(mockAnyContext(), mock.MatchedBy(func(req ports.ExternalRequest) bool { return req.Token == "a" })).
		Return(nil, fmt.Errorf("%w: 429 Too Many Requests", domain.ErrRateLimited)).Once()
	external.EXPECT().Classify(mockAnyContext(), mock.MatchedBy(func(req ports.ExternalRequest) bool { return req.Token == "b" })).
		Return([]domain.LabelScore{{Label: "joy", Score: 1}}, nil).Once()

	pool := newPool("a", "b")
	o := NewOrchestrator(onlineConfig("m", ""), nil, external, pool, zap.New(core))

	got, err := o.Classify(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentPositive, got.Sentiment.Label)

	status := pool.Status()
	assert.True(t, status[0].Cooling)
	assert.False(t, status[1].Cooling)
	assert.Equal(t, 1, logs.FilterMessage("external token rate limited").Len())
}

func TestOrchestratorNonRateLimitErrorDoesNotRetry(t *testing.T) {
	t.Parallel()

	external := mocks.NewMockExternalProvider(t)
	external.EXPECT().Name().Return(domain.ProviderNLPCloud).Maybe()
	external.EXPECT().Classify(mockAnyContext(), mock.Anything).Return(nil, errors.New("500 internal error")).Once()

	o := NewOrchestrator(onlineConfig("m", ""), nil, external, newPool("a", "b", "c"), nil)

	_, err := o.Classify(context.Background(), "hi")
	assert.ErrorIs(t, err, domain.ErrBackend)
	assert.NotErrorIs(t, err, domain.ErrRateLimitExhausted)
}

func TestOrchestratorAllTokensRateLimited(t *testing.T) {
	t.Parallel()

	external := mocks.NewMockExternalProvider(t)
	external.EXPECT().Name().Return(domain.ProviderNLPCloud).Maybe()
	external.EXPECT().Classify(mockAnyContext(), mock.Anything).
		Return(nil, fmt.Errorf("%w: Rate limit reached", domain.ErrRateLimited)).Times(3)

	pool := newPool("a", "b", "c")
	o := NewOrchestrator(onlineConfig("m", ""), nil, external, pool, nil)

	_, err := o.Classify(context.Background(), "hi")
	require.ErrorIs(t, err, domain.ErrRateLimitExhausted)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.ErrorContains(t, err, "Rate limit reached")

	_, err = o.Classify(context.Background(), "again")
	require.ErrorIs(t, err, domain.ErrRateLimitExhausted)
	assert.ErrorIs(t, err, domain.ErrPoolExhausted)
}

func TestOrchestratorOnlineWithoutTokensIsConfigError(t *testing.T) {
	t.Parallel()

	external := mocks.NewMockExternalProvider(t)
	external.EXPECT().Name().Return(domain.ProviderNLPCloud).Maybe()

	o := NewOrchestrator(onlineConfig("m", ""), nil, external, newPool(), nil)

	_, err := o.Classify(context.Background(), "hi")
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestOrchestratorAutoFallsBackToExternal(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	local := mocks.NewMockClassifier(t)
	local.EXPECT().Classify(mockAnyContext(), ports.TaskSentiment, "hi").
		Return([]domain.LabelScore{{Label: "POSITIVE", Score: 1}}, nil)
	local.EXPECT().Classify(mockAnyContext(), ports.TaskEmotion, "hi").Return(nil, errors.New("no model"))
	local.EXPECT().Model(ports.TaskSentiment).Return("local-sentiment")

	external := mocks.NewMockExternalProvider(t)
	external.EXPECT().Name().Return(domain.ProviderNLPCloud).Maybe()
	external.EXPECT().Classify(mockAnyContext(), mock.MatchedBy(func(req ports.ExternalRequest) bool {
		return req.Task == ports.TaskEmotion
	})).Return([]domain.LabelScore{{Label: "joy", Score: 1}}, nil).Once()

	cfg := onlineConfig("m", "")
	cfg.Mode = domain.BackendAuto
	o := NewOrchestrator(cfg, local, external, newPool("a"), zap.New(core))

	got, err := o.Classify(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "auto", got.Models.Backend)
	assert.Equal(t, "local-sentiment", got.Models.Sentiment)
	assert.Equal(t, "m", got.Models.Emotion)

	entries := logs.FilterMessage("local backend failed, falling back to external").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "emotion", entries[0].ContextMap()["task"])
}

func TestOrchestratorAutoWithoutExternalSurfacesLocalError(t *testing.T) {
	t.Parallel()

	local := mocks.NewMockClassifier(t)
	local.EXPECT().Classify(mockAnyContext(), mock.Anything, "hi").Return(nil, errors.New("no model")).Maybe()
	local.EXPECT().Model(mock.Anything).Return("m").Maybe()

	o := NewOrchestrator(OrchestratorConfig{Mode: domain.BackendAuto}, local, nil, nil, nil)

	_, err := o.Classify(context.Background(), "hi")
	assert.ErrorIs(t, err, domain.ErrBackend)
}

func TestOrchestratorAttemptTimeoutIsBackendFailure(t *testing.T) {
	t.Parallel()

	external := mocks.NewMockExternalProvider(t)
	external.EXPECT().Name().Return(domain.ProviderNLPCloud).Maybe()
	external.EXPECT().Classify(mockAnyContext(), mock.Anything).
		RunAndReturn(func(ctx context.Context, _ ports.ExternalRequest) ([]domain.LabelScore, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).Once()

	cfg := onlineConfig("m", "")
	cfg.Online.Timeout = 10 * time.Millisecond
	o := NewOrchestrator(cfg, nil, external, newPool("a", "b"), nil)

	_, err := o.Classify(context.Background(), "hi")
	assert.ErrorIs(t, err, domain.ErrBackend)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
