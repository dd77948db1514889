// Package httpapi exposes the Empathy Engine over HTTP.
package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/empathyengine/empathyengine/internal/emotion"
	"github.com/empathyengine/empathyengine/internal/engine"
	"github.com/empathyengine/empathyengine/internal/logging"
	"github.com/empathyengine/empathyengine/internal/tts"
)

// Server routes HTTP requests to the engine.
type Server struct {
	engine *engine.Engine
	logs   *logging.Logger
	logger zerolog.Logger
	mux    *http.ServeMux
}

// NewServer creates the HTTP surface over the given engine. logs may be
// nil; the /logs endpoint then returns an empty history.
func NewServer(logger zerolog.Logger, eng *engine.Engine, logs *logging.Logger) *Server {
	s := &Server{
		engine: eng,
		logs:   logs,
		logger: logger.With().Str("component", "httpapi").Logger(),
		mux:    http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /synthesize", s.handleSynthesize)
	s.mux.HandleFunc("GET /config", s.handleConfig)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /logs", s.handleLogs)
	s.mux.HandleFunc("GET /ws", s.handleWS)
}

type synthesizeRequest struct {
	Text          string `json:"text"`
	EmotionEngine string `json:"emotionEngine,omitempty"`
	TTSEngine     string `json:"ttsEngine,omitempty"`
}

type synthesizeResponse struct {
	RequestID        string   `json:"requestId"`
	Emotion          string   `json:"emotion"`
	AnalyzerUsed     string   `json:"analyzerUsed"`
	EngineUsed       string   `json:"engineUsed"`
	FallbackOccurred bool     `json:"fallbackOccurred"`
	ContentType      string   `json:"contentType"`
	Audio            string   `json:"audio"` // base64
	Attempts         []string `json:"attempts,omitempty"`
}

type errorResponse struct {
	RequestID string   `json:"requestId"`
	Error     string   `json:"error"`
	Attempts  []string `json:"attempts,omitempty"`
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	logger := s.logger.With().Str("requestId", requestID).Logger()

	var req synthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{RequestID: requestID, Error: "invalid JSON body"})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{RequestID: requestID, Error: "no text provided"})
		return
	}

	var failed []string
	resp, err := s.engine.SynthesizeObserved(r.Context(), engine.Request{
		Text:          req.Text,
		EmotionEngine: req.EmotionEngine,
		TTSEngine:     req.TTSEngine,
	}, func(a tts.Attempt) {
		failed = append(failed, a.Engine+": "+a.Err.Error())
	})
	if err != nil {
		logger.Error().Err(err).Msg("Synthesis request failed")
		status := http.StatusBadGateway
		if errors.Is(err, emotion.ErrEmptyText) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{
			RequestID: requestID,
			Error:     err.Error(),
			Attempts:  failed,
		})
		return
	}

	logger.Info().
		Str("emotion", resp.Emotion.String()).
		Str("engine", resp.EngineUsed).
		Msg("Synthesis request served")

	writeJSON(w, http.StatusOK, synthesizeResponse{
		RequestID:        requestID,
		Emotion:          resp.Emotion.String(),
		AnalyzerUsed:     resp.AnalyzerUsed,
		EngineUsed:       resp.EngineUsed,
		FallbackOccurred: resp.FallbackOccurred,
		ContentType:      resp.ContentType,
		Audio:            base64.StdEncoding.EncodeToString(resp.Audio),
		Attempts:         failed,
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.engine.Status()
	healthy := s.engine.Healthy()
	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":       map[bool]string{true: "healthy", false: "degraded"}[healthy],
		"analyzers":    status.Analyzers,
		"synthesizers": status.Synthesizers,
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if s.logs == nil {
		writeJSON(w, http.StatusOK, []logging.Entry{})
		return
	}
	writeJSON(w, http.StatusOK, s.logs.History())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
