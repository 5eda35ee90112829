package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bnema/sentra-emo/internal/adapters/config"
	parquetexport "github.com/bnema/sentra-emo/internal/adapters/export/parquet"
	"github.com/bnema/sentra-emo/internal/adapters/external/gemini"
	"github.com/bnema/sentra-emo/internal/adapters/external/nlpcloud"
	openaiprovider "github.com/bnema/sentra-emo/internal/adapters/external/openai"
	"github.com/bnema/sentra-emo/internal/adapters/inference"
	"github.com/bnema/sentra-emo/internal/adapters/personality"
	"github.com/bnema/sentra-emo/internal/adapters/render/profile"
	tomlrepo "github.com/bnema/sentra-emo/internal/adapters/repo/toml"
	chainstore "github.com/bnema/sentra-emo/internal/adapters/secrets/chain"
	"github.com/bnema/sentra-emo/internal/adapters/store/sqlite"
	"github.com/bnema/sentra-emo/internal/adapters/tables"
	"github.com/bnema/sentra-emo/internal/application"
	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports"
)

const eventsDBName = "events.db"

type app struct {
	settings  application.Settings
	logger    *zap.Logger
	analyze   *application.AnalyzeService
	tracker   *application.UserTracker
	analytics *application.AnalyticsService
	events    *sqlite.EventLog
	pool      *application.TokenPool
	secrets   ports.SecretStore
	sources   application.TableSources

	renderUser     func(domain.UserState, profile.RenderOptions) (string, error)
	renderAnalysis func(application.AnalysisResult) (string, error)
	now            func() time.Time
}

func (a *app) Close() error {
	var errs []error
	if a.events != nil {
		errs = append(errs, a.events.Close())
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}

func wireApp(opts config.Options, verbose bool) (*app, error) {
	cfg, err := config.Load(opts, nil)
	if err != nil {
		return nil, err
	}

	settings, err := application.LoadSettings(cfg)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	level := settings.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := newLogger(level)
	if err != nil {
		return nil, err
	}

	table, vadSource, err := tables.LoadVADTable(settings.Tables.VADMapFile)
	if err != nil {
		return nil, fmt.Errorf("load vad table: %w", err)
	}
	aliases, aliasSource, err := tables.LoadAliases(settings.Tables.LabelAliasFile)
	if err != nil {
		return nil, fmt.Errorf("load label aliases: %w", err)
	}
	negatives, _, err := tables.LoadNegatives(settings.Tables.NegativeFile)
	if err != nil {
		return nil, fmt.Errorf("load negative labels: %w", err)
	}
	logger.Debug("tables loaded",
		zap.String("vad_source", vadSource),
		zap.Int("vad_labels", len(table)),
		zap.String("alias_source", aliasSource),
		zap.Int("negative_labels", len(negatives)),
	)

	secrets, err := chainstore.NewTokenStore(filepath.Join(settings.StoreDir, "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	httpClient := &http.Client{}
	local := inference.Classifier{
		Sentiment:      inference.Endpoint{URL: settings.Local.SentimentURL, Model: settings.Local.SentimentModel},
		Emotion:        inference.Endpoint{URL: settings.Local.EmotionURL, Model: settings.Local.EmotionModel},
		HTTPClient:     httpClient,
		RequestTimeout: settings.Online.Timeout,
	}

	var (
		external ports.ExternalProvider
		pool     *application.TokenPool
	)
	if settings.Backend != domain.BackendLocal {
		external = newExternalProvider(settings.Online.Provider, httpClient)
		pool = application.NewTokenPool(
			application.SecretTokens(settings.Online.Tokens, secrets),
			settings.Online.TokenCooldown,
			ports.SystemClock{},
		)
	}

	orchestrator := application.NewOrchestrator(application.OrchestratorConfig{
		Mode:        settings.Backend,
		Online:      settings.Online,
		NeutralMode: settings.NeutralMode,
	}, local, external, pool, logger.Named("orchestrator"))

	stress := settings.Stress
	stress.NegativeLabels = domain.NegativeLabelSet(negatives)
	deriver := application.NewAffectDeriver(domain.Canonicalizer{
		Aliases:    aliases,
		UseAliases: settings.UseAliases,
		MultiLabel: settings.MultiLabel,
		Threshold:  settings.Threshold,
		MinScore:   settings.MinScore,
		TopK:       settings.TopK,
	}, table, stress)

	states, err := tomlrepo.NewRepository(storeConfig(settings.StoreDir))
	if err != nil {
		return nil, fmt.Errorf("wire user state repository: %w", err)
	}
	events, err := sqlite.Open(filepath.Join(settings.StoreDir, eventsDBName), logger.Named("eventlog"))
	if err != nil {
		return nil, fmt.Errorf("wire event log: %w", err)
	}
	exporter, err := parquetexport.NewExporter(settings.StoreDir)
	if err != nil {
		_ = events.Close()
		return nil, fmt.Errorf("wire exporter: %w", err)
	}

	var classifier ports.PersonalityClassifier
	if settings.PersonalityMode == domain.PersonalityExternal {
		classifier = personality.Client{URL: settings.PersonalityURL, HTTPClient: httpClient, RequestTimeout: settings.Online.Timeout}
	}

	clock := ports.SystemClock{}
	tracker := application.NewUserTracker(states, events, settings.Tracker, settings.ExcerptChars, clock, logger.Named("tracker"))
	metrics := application.NewMetrics(settings.MetricsCapacity, clock)

	return &app{
		settings:  settings,
		logger:    logger,
		analyze:   application.NewAnalyzeService(orchestrator, deriver, tracker, metrics, logger.Named("analyze")),
		tracker:   tracker,
		analytics: application.NewAnalyticsService(events, exporter, classifier, application.AnalyticsConfig{
			MaxEvents:   settings.AnalyticsMaxEvents,
			TopK:        settings.Tracker.TopK,
			ValenceCuts: settings.ValenceCuts,
			Personality: settings.Personality,
		}, clock, logger.Named("analytics")),
		events:         events,
		pool:           pool,
		secrets:        secrets,
		sources:        application.TableSources{VAD: vadSource, Aliases: aliasSource},
		renderUser:     profile.RenderUser,
		renderAnalysis: profile.RenderAnalysis,
		now:            time.Now,
	}, nil
}

func newExternalProvider(provider domain.Provider, httpClient *http.Client) ports.ExternalProvider {
	switch provider {
	case domain.ProviderOpenAI:
		return openaiprovider.NewProvider()
	case domain.ProviderGemini:
		return gemini.NewProvider()
	default:
		return nlpcloud.Provider{HTTPClient: httpClient}
	}
}

// storeConfig carries the resolved store directory to adapters that read it from viper.
func storeConfig(dir string) *viper.Viper {
	v := viper.New()
	v.Set(application.KeyStoreDir, dir)
	return v
}

func newLogger(level string) (*zap.Logger, error) {
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		atomic = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = atomic
	cfg.Sampling = nil
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Named("sentra"), nil
}
