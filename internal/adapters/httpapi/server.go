// Package httpapi exposes the analysis services over HTTP with JSON bodies.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bnema/sentra-emo/internal/application"
	"github.com/bnema/sentra-emo/internal/domain"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

type Analyzer interface {
	Analyze(ctx context.Context, cmd application.AnalyzeCommand) (application.AnalysisResult, error)
	AnalyzeBatch(ctx context.Context, cmd application.AnalyzeBatchCommand) ([]application.AnalysisResult, error)
	Metrics() application.MetricsSnapshot
	Status(sources application.TableSources) application.StatusReport
}

type Users interface {
	Get(ctx context.Context, userID string) (domain.UserState, error)
	Events(ctx context.Context, userID string, query domain.EventQuery) ([]domain.EmotionEvent, error)
}

type Analytics interface {
	Summary(ctx context.Context, userID string, query application.AnalyticsQuery) (domain.AnalyticsSummary, error)
	Export(ctx context.Context, cmd application.ExportCommand) (application.ExportResult, error)
}

type Deps struct {
	Analyzer  Analyzer
	Users     Users
	Analytics Analytics
	Sources   application.TableSources
	Logger    *zap.Logger
}

type Server struct {
	analyzer  Analyzer
	users     Users
	analytics Analytics
	sources   application.TableSources
	logger    *zap.Logger
}

func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		analyzer:  deps.Analyzer,
		users:     deps.Users,
		analytics: deps.Analytics,
		sources:   deps.Sources,
		logger:    logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /analyze/batch", s.handleAnalyzeBatch)
	mux.HandleFunc("GET /user/{id}", s.handleUser)
	mux.HandleFunc("GET /user/{id}/events", s.handleUserEvents)
	mux.HandleFunc("GET /user/{id}/analytics", s.handleUserAnalytics)
	mux.HandleFunc("POST /user/{id}/export", s.handleUserExport)
	mux.HandleFunc("GET /models", s.handleModels)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	return s.recoverPanics(s.accessLog(cors(mux)))
}

// ListenAndServe blocks until ctx is canceled or the listener fails, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", listener.Addr().String()))
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}
