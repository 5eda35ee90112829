package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bnema/sentra-emo/internal/application"
	"github.com/bnema/sentra-emo/internal/domain"
)

type analyzeRequest struct {
	Text     string `json:"text"`
	UserID   string `json:"userid"`
	Username string `json:"username"`
}

type analyzeBatchRequest struct {
	Texts    []string `json:"texts"`
	UserID   string   `json:"userid"`
	Username string   `json:"username"`
}

type vadResponse struct {
	Valence   float64 `json:"valence"`
	Arousal   float64 `json:"arousal"`
	Dominance float64 `json:"dominance"`
	Method    string  `json:"method"`
}

type analyzeResponse struct {
	Sentiment domain.SentimentResult `json:"sentiment"`
	Emotions  domain.Distribution    `json:"emotions"`
	VAD       vadResponse            `json:"vad"`
	PAD       domain.PAD             `json:"pad"`
	Stress    domain.StressResult    `json:"stress"`
	Models    modelsResponse         `json:"models"`
	User      *domain.UserState      `json:"user,omitempty"`
	LatencyMS float64                `json:"latency_ms"`
}

type modelsResponse struct {
	Sentiment string `json:"sentiment"`
	Emotion   string `json:"emotion"`
}

type eventsResponse struct {
	UserID string                `json:"userid"`
	Events []domain.EmotionEvent `json:"events"`
}

type statusResponse struct {
	Models statusModels `json:"models"`
	VAD    statusTables `json:"vad"`
}

type statusModels struct {
	Backend   string               `json:"backend"`
	Provider  string               `json:"provider,omitempty"`
	Sentiment string               `json:"sentiment"`
	Emotion   string               `json:"emotion"`
	Tokens    []domain.TokenStatus `json:"tokens,omitempty"`
}

type statusTables struct {
	Source        string   `json:"source"`
	Labels        int      `json:"labels"`
	AliasSource   string   `json:"alias_source"`
	Aliases       int      `json:"aliases"`
	UnknownLabels []string `json:"unknown_labels"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), application.AnalyzeCommand{
		Text:     req.Text,
		UserID:   req.UserID,
		Username: req.Username,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAnalyzeResponse(result))
}

func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req analyzeBatchRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	results, err := s.analyzer.AnalyzeBatch(r.Context(), application.AnalyzeBatchCommand{
		Texts:    req.Texts,
		UserID:   req.UserID,
		Username: req.Username,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]analyzeResponse, 0, len(results))
	for _, result := range results {
		resp = append(resp, toAnalyzeResponse(result))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	state, err := s.users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleUserEvents(w http.ResponseWriter, r *http.Request) {
	query, err := parseEventQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	userID := r.PathValue("id")
	events, err := s.users.Events(r.Context(), userID, query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if events == nil {
		events = []domain.EmotionEvent{}
	}
	writeJSON(w, http.StatusOK, eventsResponse{UserID: userID, Events: events})
}

func (s *Server) handleUserAnalytics(w http.ResponseWriter, r *http.Request) {
	query, err := parseAnalyticsQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summary, err := s.analytics.Summary(r.Context(), r.PathValue("id"), query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleUserExport(w http.ResponseWriter, r *http.Request) {
	result, err := s.analytics.Export(r.Context(), application.ExportCommand{UserID: r.PathValue("id")})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	report := s.analyzer.Status(s.sources)
	unknown := report.UnknownLabels
	if unknown == nil {
		unknown = []string{}
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Models: statusModels{
			Backend:   report.Backend,
			Provider:  report.Provider,
			Sentiment: report.Models.Sentiment,
			Emotion:   report.Models.Emotion,
			Tokens:    report.Tokens,
		},
		VAD: statusTables{
			Source:        report.VADSource,
			Labels:        report.VADLabels,
			AliasSource:   report.AliasSource,
			Aliases:       report.AliasCount,
			UnknownLabels: unknown,
		},
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.analyzer.Metrics())
}

func toAnalyzeResponse(result application.AnalysisResult) analyzeResponse {
	return analyzeResponse{
		Sentiment: result.Sentiment,
		Emotions:  result.Emotions,
		VAD: vadResponse{
			Valence:   result.VAD.Valence,
			Arousal:   result.VAD.Arousal,
			Dominance: result.VAD.Dominance,
			Method:    domain.VADMethod,
		},
		PAD:    result.PAD,
		Stress: result.Stress,
		Models: modelsResponse{
			Sentiment: result.Models.Sentiment,
			Emotion:   result.Models.Emotion,
		},
		User:      result.User,
		LatencyMS: float64(result.Latency) / float64(time.Millisecond),
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", domain.ErrValidation)
		}
		return fmt.Errorf("%w: decode request body: %v", domain.ErrValidation, err)
	}
	return nil
}

func parseEventQuery(r *http.Request) (domain.EventQuery, error) {
	values := r.URL.Query()
	query := domain.EventQuery{Limit: domain.DefaultEventLimit}

	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return domain.EventQuery{}, fmt.Errorf("%w: limit must be a non-negative integer", domain.ErrValidation)
		}
		query.Limit = limit
	}

	var err error
	if query.Start, err = parseTimeParam(values.Get("start"), "start"); err != nil {
		return domain.EventQuery{}, err
	}
	if query.End, err = parseTimeParam(values.Get("end"), "end"); err != nil {
		return domain.EventQuery{}, err
	}
	return query, nil
}

func parseAnalyticsQuery(r *http.Request) (application.AnalyticsQuery, error) {
	values := r.URL.Query()
	var query application.AnalyticsQuery

	if raw := strings.TrimSpace(values.Get("days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			return application.AnalyticsQuery{}, fmt.Errorf("%w: days must be a positive integer", domain.ErrValidation)
		}
		query.Days = days
	}

	var err error
	if query.Start, err = parseTimeParam(values.Get("start"), "start"); err != nil {
		return application.AnalyticsQuery{}, err
	}
	if query.End, err = parseTimeParam(values.Get("end"), "end"); err != nil {
		return application.AnalyticsQuery{}, err
	}
	return query, nil
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// parseTimeParam accepts RFC 3339, a naive timestamp, or a date. Naive values are read as UTC.
func parseTimeParam(raw, name string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s must be an ISO 8601 timestamp", domain.ErrValidation, name)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
