// Package httpapi provides the websocket synthesis endpoint, streaming
// per-candidate progress while the fallback chain runs.
package httpapi

import (
	"encoding/base64"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/empathyengine/empathyengine/internal/engine"
	"github.com/empathyengine/empathyengine/internal/tts"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// wsEvent is one streamed progress message. Type is "attempt",
// "result" or "error".
type wsEvent struct {
	Type             string `json:"type"`
	RequestID        string `json:"requestId"`
	Engine           string `json:"engine,omitempty"`
	Error            string `json:"error,omitempty"`
	Emotion          string `json:"emotion,omitempty"`
	AnalyzerUsed     string `json:"analyzerUsed,omitempty"`
	FallbackOccurred bool   `json:"fallbackOccurred,omitempty"`
	ContentType      string `json:"contentType,omitempty"`
	Audio            string `json:"audio,omitempty"` // base64
}

// handleWS accepts one synthesize request per message and streams an
// "attempt" event for every failed candidate before the terminal
// "result" or "error" event.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		var req synthesizeRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug().Err(err).Msg("Websocket read ended")
			}
			return
		}

		requestID := uuid.NewString()

		if req.Text == "" {
			_ = conn.WriteJSON(wsEvent{Type: "error", RequestID: requestID, Error: "no text provided"})
			continue
		}

		resp, err := s.engine.SynthesizeObserved(r.Context(), engine.Request{
			Text:          req.Text,
			EmotionEngine: req.EmotionEngine,
			TTSEngine:     req.TTSEngine,
		}, func(a tts.Attempt) {
			_ = conn.WriteJSON(wsEvent{
				Type:      "attempt",
				RequestID: requestID,
				Engine:    a.Engine,
				Error:     a.Err.Error(),
			})
		})
		if err != nil {
			_ = conn.WriteJSON(wsEvent{Type: "error", RequestID: requestID, Error: err.Error()})
			continue
		}

		_ = conn.WriteJSON(wsEvent{
			Type:             "result",
			RequestID:        requestID,
			Emotion:          resp.Emotion.String(),
			AnalyzerUsed:     resp.AnalyzerUsed,
			Engine:           resp.EngineUsed,
			FallbackOccurred: resp.FallbackOccurred,
			ContentType:      resp.ContentType,
			Audio:            base64.StdEncoding.EncodeToString(resp.Audio),
		})
	}
}
