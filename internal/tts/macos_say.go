// Package tts provides the macOS native synthesis backend using the
// 'say' command. Zero-dependency fallback with system voices.
package tts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/empathyengine/empathyengine/internal/voice"
)

// SayEngine synthesizes speech with the macOS 'say' command.
type SayEngine struct {
	logger zerolog.Logger
}

// NewSayEngine creates a new macOS say backend.
func NewSayEngine(logger zerolog.Logger) *SayEngine {
	return &SayEngine{
		logger: logger.With().Str("engine", "say").Logger(),
	}
}

// Name returns the backend identifier.
func (e *SayEngine) Name() string {
	return "say"
}

// IsAvailable checks if this is macOS and the 'say' command exists.
func (e *SayEngine) IsAvailable() bool {
	if runtime.GOOS != "darwin" {
		return false
	}
	_, err := exec.LookPath("say")
	return err == nil
}

// Synthesize renders the text as AAC audio via a temp file.
func (e *SayEngine) Synthesize(ctx context.Context, text string, params voice.Parameters) (*Audio, error) {
	if !e.IsAvailable() {
		return nil, fmt.Errorf("%w: macOS say not available", ErrEngineUnavailable)
	}

	startTime := time.Now()

	tmpFile, err := os.CreateTemp("", "tts-*.m4a")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp file: %v", ErrSynthesisFailed, err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	args := []string{
		"-v", params.Voice,
		"-r", strconv.Itoa(params.WordsPerMinute),
		"-o", tmpPath,
		"--data-format=aac",
		text,
	}

	cmd := exec.CommandContext(ctx, "say", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("output", string(output)).
			Msg("say command failed")
		return nil, fmt.Errorf("%w: say: %v", ErrSynthesisFailed, err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio file: %v", ErrSynthesisFailed, err)
	}

	e.logger.Info().
		Str("voice", params.Voice).
		Int("rate", params.WordsPerMinute).
		Int("audioBytes", len(data)).
		Dur("processingTime", time.Since(startTime)).
		Msg("macOS say synthesis complete")

	return &Audio{Data: data, ContentType: "audio/mp4"}, nil
}
