// Package tts provides the synthesis fallback resolver.
package tts

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/empathyengine/empathyengine/internal/emotion"
	"github.com/empathyengine/empathyengine/internal/voice"
)

// AttemptObserver is notified after each failed candidate, before the
// next is tried. Used to stream progress to a caller; may be nil.
type AttemptObserver func(Attempt)

// Chain orchestrates ordered synthesis attempts across registered
// engines until one succeeds. Attempts are strictly sequential: each
// candidate runs to completion before the next starts, so a paid
// backend is never called speculatively.
type Chain struct {
	engines        []Engine
	byName         map[string]Engine
	mapper         *voice.Mapper
	attemptTimeout time.Duration
	logger         zerolog.Logger
}

// NewChain creates a fallback chain over the given engines. The
// argument order fixes the default priority. attemptTimeout bounds each
// candidate individually; zero means no per-candidate bound beyond the
// request context.
func NewChain(logger zerolog.Logger, mapper *voice.Mapper, attemptTimeout time.Duration, engines ...Engine) *Chain {
	byName := make(map[string]Engine, len(engines))
	for _, eng := range engines {
		byName[eng.Name()] = eng
	}
	return &Chain{
		engines:        engines,
		byName:         byName,
		mapper:         mapper,
		attemptTimeout: attemptTimeout,
		logger:         logger.With().Str("component", "tts-fallback").Logger(),
	}
}

// Names returns the registered engine identifiers in priority order.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.engines))
	for _, eng := range c.engines {
		names = append(names, eng.Name())
	}
	return names
}

// Availability reports, per engine, whether it is currently usable.
// Computed live so it reflects the current dependency state.
func (c *Chain) Availability() map[string]bool {
	out := make(map[string]bool, len(c.engines))
	for _, eng := range c.engines {
		out[eng.Name()] = eng.IsAvailable()
	}
	return out
}

// Render synthesizes the text at the given emotion level, walking the
// candidate list in order: preferred engine, configured fallbacks, then
// any remaining registered engines, duplicates removed keeping the
// first occurrence. Every failure is recorded and swallowed as long as
// a candidate remains untried; only total exhaustion returns an error,
// an *ExhaustedError carrying the ordered failure records.
func (c *Chain) Render(ctx context.Context, text string, level emotion.Level, preferred string, fallbacks []string, observe AttemptObserver) (*Result, error) {
	order := c.candidateOrder(preferred, fallbacks)

	var attempts []Attempt
	for i, name := range order {
		eng := c.byName[name]

		params, err := c.mapper.MapVoice(level, name)
		if err == nil {
			attemptCtx := ctx
			var cancel context.CancelFunc
			if c.attemptTimeout > 0 {
				attemptCtx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
			}
			var audio *Audio
			audio, err = eng.Synthesize(attemptCtx, text, params)
			if cancel != nil {
				cancel()
			}
			if err == nil {
				c.logger.Info().
					Str("engine", name).
					Str("emotion", level.String()).
					Bool("fallback", i > 0).
					Int("failedAttempts", len(attempts)).
					Msg("Synthesis succeeded")
				return &Result{
					Audio:            audio.Data,
					ContentType:      audio.ContentType,
					Engine:           name,
					FallbackOccurred: i > 0,
					Attempts:         attempts,
				}, nil
			}
		}

		attempt := Attempt{Engine: name, Err: err}
		attempts = append(attempts, attempt)
		if observe != nil {
			observe(attempt)
		}
		c.logger.Warn().
			Err(err).
			Str("engine", name).
			Msg("Synthesis candidate failed, trying next")

		// A caller that abandoned the request stops the walk; a
		// single candidate timing out does not.
		if ctx.Err() != nil {
			break
		}
	}

	return nil, &ExhaustedError{Attempts: attempts}
}

// candidateOrder builds the ordered, deduplicated candidate list.
// Configured names that match no registered engine are dropped.
func (c *Chain) candidateOrder(preferred string, fallbacks []string) []string {
	seen := make(map[string]bool, len(c.engines))
	order := make([]string, 0, len(c.engines))

	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		if _, ok := c.byName[name]; !ok {
			c.logger.Warn().Str("engine", name).Msg("Configured engine not registered")
			return
		}
		seen[name] = true
		order = append(order, name)
	}

	add(preferred)
	for _, name := range fallbacks {
		add(name)
	}
	for _, eng := range c.engines {
		add(eng.Name())
	}
	return order
}
