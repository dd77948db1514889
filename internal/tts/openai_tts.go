// Package tts provides the OpenAI speech synthesis backend.
package tts

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/empathyengine/empathyengine/internal/voice"
)

// OpenAIConfig holds OpenAI TTS configuration
type OpenAIConfig struct {
	APIKey  string        `json:"api_key"`
	Model   string        `json:"model"`    // tts-1 or tts-1-hd
	BaseURL string        `json:"base_url"` // override for self-hosted gateways
	Timeout time.Duration `json:"timeout"`
}

// DefaultOpenAIConfig returns sensible defaults
func DefaultOpenAIConfig() *OpenAIConfig {
	return &OpenAIConfig{
		Model:   string(openai.TTSModel1),
		Timeout: 30 * time.Second,
	}
}

// OpenAIEngine synthesizes speech through the OpenAI TTS API.
type OpenAIEngine struct {
	client *openai.Client
	apiKey string
	config *OpenAIConfig
	logger zerolog.Logger
}

// NewOpenAIEngine creates a new OpenAI synthesis backend.
func NewOpenAIEngine(logger zerolog.Logger, config *OpenAIConfig) *OpenAIEngine {
	if config == nil {
		config = DefaultOpenAIConfig()
	}

	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	cc := openai.DefaultConfig(apiKey)
	if config.BaseURL != "" {
		cc.BaseURL = config.BaseURL
	}

	return &OpenAIEngine{
		client: openai.NewClientWithConfig(cc),
		apiKey: apiKey,
		config: config,
		logger: logger.With().Str("engine", "openai").Logger(),
	}
}

// Name returns the backend identifier.
func (e *OpenAIEngine) Name() string {
	return "openai"
}

// IsAvailable reports whether an API key is configured.
func (e *OpenAIEngine) IsAvailable() bool {
	return e.apiKey != ""
}

// Synthesize renders the text as MP3 via the speech endpoint.
func (e *OpenAIEngine) Synthesize(ctx context.Context, text string, params voice.Parameters) (*Audio, error) {
	if !e.IsAvailable() {
		return nil, fmt.Errorf("%w: OpenAI API key not configured", ErrEngineUnavailable)
	}

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	startTime := time.Now()

	resp, err := e.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(e.config.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(params.Voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          params.SpeakingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai speech: %v", ErrSynthesisFailed, err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: read speech response: %v", ErrSynthesisFailed, err)
	}

	e.logger.Info().
		Str("voice", params.Voice).
		Float64("speed", params.SpeakingRate).
		Int("audioBytes", len(data)).
		Dur("processingTime", time.Since(startTime)).
		Msg("OpenAI synthesis complete")

	return &Audio{Data: data, ContentType: "audio/mpeg"}, nil
}
