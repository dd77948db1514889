// Package tts provides the espeak-ng offline synthesis backend.
package tts

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/empathyengine/empathyengine/internal/voice"
)

// EspeakConfig holds espeak-ng configuration
type EspeakConfig struct {
	BinPath string `json:"bin_path"` // espeak-ng binary (default: found on PATH)
}

// DefaultEspeakConfig returns sensible defaults
func DefaultEspeakConfig() *EspeakConfig {
	return &EspeakConfig{
		BinPath: "espeak-ng",
	}
}

// EspeakEngine synthesizes speech with the espeak-ng binary. It is the
// fully offline fallback; no credentials, no network.
type EspeakEngine struct {
	config *EspeakConfig
	logger zerolog.Logger
}

// NewEspeakEngine creates a new espeak-ng synthesis backend.
func NewEspeakEngine(logger zerolog.Logger, config *EspeakConfig) *EspeakEngine {
	if config == nil {
		config = DefaultEspeakConfig()
	}
	if config.BinPath == "" {
		config.BinPath = "espeak-ng"
	}
	return &EspeakEngine{
		config: config,
		logger: logger.With().Str("engine", "espeak").Logger(),
	}
}

// Name returns the backend identifier.
func (e *EspeakEngine) Name() string {
	return "espeak"
}

// IsAvailable reports whether the binary is on PATH. Checked live.
func (e *EspeakEngine) IsAvailable() bool {
	_, err := exec.LookPath(e.config.BinPath)
	return err == nil
}

// Synthesize renders the text as WAV on espeak's stdout.
func (e *EspeakEngine) Synthesize(ctx context.Context, text string, params voice.Parameters) (*Audio, error) {
	if !e.IsAvailable() {
		return nil, fmt.Errorf("%w: %s not found on PATH", ErrEngineUnavailable, e.config.BinPath)
	}

	startTime := time.Now()

	args := []string{
		"-s", strconv.Itoa(params.WordsPerMinute),
		"-p", strconv.Itoa(params.Pitch),
		"-a", strconv.Itoa(params.Amplitude),
		"-v", params.Voice,
		"--stdout",
		text,
	}

	cmd := exec.CommandContext(ctx, e.config.BinPath, args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		e.logger.Error().
			Err(err).
			Str("stderr", stderr.String()).
			Msg("espeak-ng failed")
		return nil, fmt.Errorf("%w: espeak-ng: %s: %v", ErrSynthesisFailed, stderr.String(), err)
	}

	e.logger.Info().
		Int("wpm", params.WordsPerMinute).
		Int("pitch", params.Pitch).
		Int("audioBytes", out.Len()).
		Dur("processingTime", time.Since(startTime)).
		Msg("espeak synthesis complete")

	return &Audio{Data: out.Bytes(), ContentType: "audio/wav"}, nil
}
