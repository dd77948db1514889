// Package engine orchestrates the Empathy Engine pipeline: emotion
// resolution, voice parameter mapping, and fallback synthesis.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/empathyengine/empathyengine/internal/emotion"
	"github.com/empathyengine/empathyengine/internal/tts"
)

// Config selects the preferred analyzer, the preferred synthesis
// engine, and the ordered fallback list. It is an immutable value fixed
// at startup and passed in explicitly; nothing mutates it mid-request.
type Config struct {
	Analyzer       string        `json:"analyzer"`
	Synthesizer    string        `json:"synthesizer"`
	Fallbacks      []string      `json:"fallbacks"`
	MaxTextLength  int           `json:"max_text_length"`
	AttemptTimeout time.Duration `json:"attempt_timeout"`
}

// Request is one text-to-audio rendering request. EmotionEngine and
// TTSEngine override the configured preferences for this request only.
type Request struct {
	Text          string `json:"text"`
	EmotionEngine string `json:"emotionEngine,omitempty"`
	TTSEngine     string `json:"ttsEngine,omitempty"`
}

// Response carries the rendered audio plus metadata about how it was
// produced. Owned by the caller once returned.
type Response struct {
	Audio            []byte        `json:"-"`
	ContentType      string        `json:"content_type"`
	Emotion          emotion.Level `json:"-"`
	AnalyzerUsed     string        `json:"analyzer_used"`
	EngineUsed       string        `json:"engine_used"`
	FallbackOccurred bool          `json:"fallback_occurred"`
}

// Status is the introspection snapshot: live per-backend availability
// plus the active configuration.
type Status struct {
	Analyzers    map[string]bool `json:"analyzers"`
	Synthesizers map[string]bool `json:"synthesizers"`
	Config       Config          `json:"config"`
}

// Engine is the orchestration facade. Requests are independent; all
// shared state behind it is read-only after initialization.
type Engine struct {
	cfg      Config
	ensemble *emotion.Ensemble
	chain    *tts.Chain
	logger   zerolog.Logger
}

// New creates an engine over the given resolvers. The voice mapper
// behind the chain must already be validated for full level coverage.
func New(logger zerolog.Logger, cfg Config, ensemble *emotion.Ensemble, chain *tts.Chain) *Engine {
	return &Engine{
		cfg:      cfg,
		ensemble: ensemble,
		chain:    chain,
		logger:   logger.With().Str("component", "engine").Logger(),
	}
}

// Config returns the active configuration value.
func (e *Engine) Config() Config {
	return e.cfg
}

// Synthesize runs the full pipeline for one request. Per-candidate
// failures inside both resolvers are swallowed and logged; only
// NoAnalyzerAvailable or total synthesis exhaustion surface, and the
// engine never returns partial audio.
func (e *Engine) Synthesize(ctx context.Context, req Request) (*Response, error) {
	return e.SynthesizeObserved(ctx, req, nil)
}

// SynthesizeObserved is Synthesize with a per-attempt observer for
// callers that stream progress.
func (e *Engine) SynthesizeObserved(ctx context.Context, req Request, observe tts.AttemptObserver) (*Response, error) {
	text := req.Text
	if text == "" {
		return nil, emotion.ErrEmptyText
	}
	if e.cfg.MaxTextLength > 0 {
		text = truncate(text, e.cfg.MaxTextLength)
	}

	analyzerPref := req.EmotionEngine
	if analyzerPref == "" {
		analyzerPref = e.cfg.Analyzer
	}
	level, analyzerUsed, err := e.ensemble.Resolve(ctx, text, analyzerPref)
	if err != nil {
		return nil, fmt.Errorf("resolve emotion: %w", err)
	}

	enginePref := req.TTSEngine
	if enginePref == "" {
		enginePref = e.cfg.Synthesizer
	}
	result, err := e.chain.Render(ctx, text, level, enginePref, e.cfg.Fallbacks, observe)
	if err != nil {
		return nil, fmt.Errorf("render audio: %w", err)
	}

	e.logger.Info().
		Str("emotion", level.String()).
		Str("analyzer", analyzerUsed).
		Str("engine", result.Engine).
		Bool("fallback", result.FallbackOccurred).
		Int("audioBytes", len(result.Audio)).
		Msg("Request complete")

	return &Response{
		Audio:            result.Audio,
		ContentType:      result.ContentType,
		Emotion:          level,
		AnalyzerUsed:     analyzerUsed,
		EngineUsed:       result.Engine,
		FallbackOccurred: result.FallbackOccurred,
	}, nil
}

// Status queries every backend's availability check. Nothing is cached,
// so the snapshot reflects the current dependency state.
func (e *Engine) Status() Status {
	return Status{
		Analyzers:    e.ensemble.Availability(),
		Synthesizers: e.chain.Availability(),
		Config:       e.cfg,
	}
}

// Healthy reports whether at least one analyzer and one synthesis
// engine are currently usable.
func (e *Engine) Healthy() bool {
	status := e.Status()
	anyAnalyzer := false
	for _, ok := range status.Analyzers {
		anyAnalyzer = anyAnalyzer || ok
	}
	anyEngine := false
	for _, ok := range status.Synthesizers {
		anyEngine = anyEngine || ok
	}
	return anyAnalyzer && anyEngine
}

// truncate cuts text to at most max runes without splitting one.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
