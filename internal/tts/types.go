// Package tts provides multi-backend speech synthesis for the Empathy
// Engine, with deterministic engine selection and automatic failover.
package tts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/empathyengine/empathyengine/internal/voice"
)

// Common errors
var (
	ErrEngineUnavailable = errors.New("synthesis engine unavailable")
	ErrSynthesisFailed   = errors.New("synthesis failed")
	ErrAllEnginesFailed  = errors.New("all synthesis engines failed")
)

// Engine is the interface all synthesis backends implement. Engines are
// stateless with respect to a single call; long-lived clients are
// initialized once and shared read-only across requests.
type Engine interface {
	// Name returns the backend identifier (e.g. "openai", "espeak")
	Name() string

	// IsAvailable reports whether the backend can currently synthesize
	IsAvailable() bool

	// Synthesize renders text with the given voice parameters
	Synthesize(ctx context.Context, text string, params voice.Parameters) (*Audio, error)
}

// Audio is the synthesized payload.
type Audio struct {
	Data        []byte `json:"-"`
	ContentType string `json:"content_type"`
}

// Attempt records one failed synthesis candidate for diagnostics.
type Attempt struct {
	Engine string `json:"engine"`
	Err    error  `json:"-"`
}

// Result is returned to the caller after a successful synthesis.
type Result struct {
	Audio            []byte    `json:"-"`
	ContentType      string    `json:"content_type"`
	Engine           string    `json:"engine"`
	FallbackOccurred bool      `json:"fallback_occurred"`
	Attempts         []Attempt `json:"attempts,omitempty"` // failed candidates tried before success
}

// ExhaustedError is returned when every candidate engine failed. It
// preserves the ordered per-candidate failures for debugging which
// backends were tried.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Engine, a.Err))
	}
	return fmt.Sprintf("%v: [%s]", ErrAllEnginesFailed, strings.Join(parts, "; "))
}

func (e *ExhaustedError) Unwrap() error {
	return ErrAllEnginesFailed
}
