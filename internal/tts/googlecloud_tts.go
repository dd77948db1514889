// Package tts provides the Google Cloud Text-to-Speech backend.
package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/empathyengine/empathyengine/internal/voice"
)

const googleCloudEndpoint = "https://texttospeech.googleapis.com/v1/text:synthesize"

// GoogleCloudConfig holds Google Cloud TTS configuration
type GoogleCloudConfig struct {
	AccessToken     string        `json:"access_token"`
	Project         string        `json:"project"`
	CredentialsPath string        `json:"credentials_path"` // watched so availability tracks the key file
	Endpoint        string        `json:"endpoint"`
	Timeout         time.Duration `json:"timeout"`
}

// DefaultGoogleCloudConfig returns defaults populated from the
// conventional Google environment variables.
func DefaultGoogleCloudConfig() *GoogleCloudConfig {
	return &GoogleCloudConfig{
		AccessToken:     os.Getenv("GOOGLE_TTS_ACCESS_TOKEN"),
		Project:         os.Getenv("GOOGLE_CLOUD_PROJECT"),
		CredentialsPath: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		Endpoint:        googleCloudEndpoint,
		Timeout:         20 * time.Second,
	}
}

// GoogleCloudEngine synthesizes speech through the Google Cloud TTS
// REST API with Wavenet voices.
type GoogleCloudEngine struct {
	client *http.Client
	config *GoogleCloudConfig
	logger zerolog.Logger
}

// NewGoogleCloudEngine creates a new Google Cloud synthesis backend.
func NewGoogleCloudEngine(logger zerolog.Logger, config *GoogleCloudConfig) *GoogleCloudEngine {
	if config == nil {
		config = DefaultGoogleCloudConfig()
	}
	if config.Endpoint == "" {
		config.Endpoint = googleCloudEndpoint
	}

	return &GoogleCloudEngine{
		client: &http.Client{Timeout: config.Timeout},
		config: config,
		logger: logger.With().Str("engine", "googlecloud").Logger(),
	}
}

// Name returns the backend identifier.
func (e *GoogleCloudEngine) Name() string {
	return "googlecloud"
}

// IsAvailable reports whether credentials are configured. Checked live
// on every call so a key file appearing or disappearing is reflected.
func (e *GoogleCloudEngine) IsAvailable() bool {
	if e.config.AccessToken == "" || e.config.Project == "" {
		return false
	}
	if e.config.CredentialsPath != "" {
		if _, err := os.Stat(e.config.CredentialsPath); err != nil {
			return false
		}
	}
	return true
}

// googleCloudResponse is the synthesize response body.
type googleCloudResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize renders the text as MP3 via the REST synthesize endpoint.
func (e *GoogleCloudEngine) Synthesize(ctx context.Context, text string, params voice.Parameters) (*Audio, error) {
	if !e.IsAvailable() {
		return nil, fmt.Errorf("%w: Google Cloud credentials not configured", ErrEngineUnavailable)
	}

	startTime := time.Now()

	body := map[string]any{
		"input": map[string]string{
			"text": text,
		},
		"voice": map[string]string{
			"languageCode": params.Language,
			"name":         params.Voice,
			"ssmlGender":   params.Gender,
		},
		"audioConfig": map[string]any{
			"audioEncoding": "MP3",
			"speakingRate":  params.SpeakingRate,
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrSynthesisFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.config.Endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrSynthesisFailed, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+e.config.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-user-project", e.config.Project)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: http: %v", ErrSynthesisFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", ErrSynthesisFailed, resp.StatusCode, msg)
	}

	var parsed googleCloudResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSynthesisFailed, err)
	}

	data, err := base64.StdEncoding.DecodeString(parsed.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("%w: decode audio: %v", ErrSynthesisFailed, err)
	}

	e.logger.Info().
		Str("voice", params.Voice).
		Float64("speakingRate", params.SpeakingRate).
		Int("audioBytes", len(data)).
		Dur("processingTime", time.Since(startTime)).
		Msg("Google Cloud synthesis complete")

	return &Audio{Data: data, ContentType: "audio/mpeg"}, nil
}
