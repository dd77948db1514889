// Package tts provides the Gemini native-audio synthesis backend.
package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/empathyengine/empathyengine/internal/voice"
)

// GeminiConfig holds Gemini TTS configuration
type GeminiConfig struct {
	APIKey  string        `json:"api_key"`
	Model   string        `json:"model"`
	Timeout time.Duration `json:"timeout"`
}

// DefaultGeminiConfig returns sensible defaults
func DefaultGeminiConfig() *GeminiConfig {
	return &GeminiConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Model:   "models/gemini-2.5-flash-native-audio-preview-12-2025",
		Timeout: 60 * time.Second,
	}
}

// GeminiEngine synthesizes speech through the Gemini Live API. The
// client is created lazily on first use; creation is guarded so
// concurrent first callers initialize it at most once, and the client
// is shared read-only afterwards.
type GeminiEngine struct {
	config *GeminiConfig
	logger zerolog.Logger

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

// NewGeminiEngine creates a new Gemini synthesis backend.
func NewGeminiEngine(logger zerolog.Logger, config *GeminiConfig) *GeminiEngine {
	if config == nil {
		config = DefaultGeminiConfig()
	}
	return &GeminiEngine{
		config: config,
		logger: logger.With().Str("engine", "gemini").Logger(),
	}
}

// Name returns the backend identifier.
func (e *GeminiEngine) Name() string {
	return "gemini"
}

// IsAvailable reports whether an API key is configured.
func (e *GeminiEngine) IsAvailable() bool {
	return e.config.APIKey != ""
}

// connect creates the shared genai client exactly once.
func (e *GeminiEngine) connect(ctx context.Context) (*genai.Client, error) {
	e.initOnce.Do(func() {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  e.config.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			e.initErr = err
			return
		}
		e.client = client
		e.logger.Info().Str("model", e.config.Model).Msg("Gemini client initialized")
	})
	return e.client, e.initErr
}

// Synthesize renders the text as WAV through a Gemini live session.
// The voice parameter style hint is folded into the system instruction.
func (e *GeminiEngine) Synthesize(ctx context.Context, text string, params voice.Parameters) (*Audio, error) {
	if !e.IsAvailable() {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY not set", ErrEngineUnavailable)
	}

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	client, err := e.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: client init: %v", ErrEngineUnavailable, err)
	}

	startTime := time.Now()

	instruction := "You are a TTS engine. Repeat the user's text verbatim. Do not add, remove, translate, or rephrase. Output audio only."
	if params.StyleHint != "" {
		instruction += " Speak in " + params.StyleHint + "."
	}

	cfg := &genai.LiveConnectConfig{
		ResponseModalities: []genai.Modality{genai.ModalityAudio},
		Temperature:        genai.Ptr[float32](0),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: instruction}},
		},
	}
	if params.Voice != "" {
		cfg.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: params.Voice,
				},
			},
		}
	}

	session, err := client.Live.Connect(ctx, e.config.Model, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: live connect: %v", ErrSynthesisFailed, err)
	}
	defer session.Close()

	turn := genai.NewContentFromText(text, genai.RoleUser)
	err = session.SendClientContent(genai.LiveClientContentInput{
		Turns:        []*genai.Content{turn},
		TurnComplete: genai.Ptr(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: send content: %v", ErrSynthesisFailed, err)
	}

	var pcm bytes.Buffer
	for {
		msg, err := session.Receive()
		if err != nil {
			return nil, fmt.Errorf("%w: receive: %v", ErrSynthesisFailed, err)
		}
		if msg.ServerContent != nil && msg.ServerContent.ModelTurn != nil {
			for _, p := range msg.ServerContent.ModelTurn.Parts {
				if p.InlineData != nil && len(p.InlineData.Data) > 0 {
					pcm.Write(p.InlineData.Data)
				}
			}
		}
		if msg.ServerContent != nil && (msg.ServerContent.TurnComplete || msg.ServerContent.GenerationComplete) {
			break
		}
	}

	wav, err := pcmToWav(pcm.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: wav encode: %v", ErrSynthesisFailed, err)
	}

	e.logger.Info().
		Str("voice", params.Voice).
		Int("audioBytes", len(wav)).
		Dur("processingTime", time.Since(startTime)).
		Msg("Gemini synthesis complete")

	return &Audio{Data: wav, ContentType: "audio/wav"}, nil
}
