// Package emotion provides the analyzer ensemble resolver.
package emotion

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Ensemble selects among registered analyzer backends by priority and
// availability. Registration order is the default priority order, most
// discriminative backend first.
type Ensemble struct {
	analyzers []Analyzer
	byName    map[string]Analyzer
	logger    zerolog.Logger
}

// NewEnsemble creates an ensemble over the given analyzers. The
// argument order fixes the default priority.
func NewEnsemble(logger zerolog.Logger, analyzers ...Analyzer) *Ensemble {
	byName := make(map[string]Analyzer, len(analyzers))
	for _, a := range analyzers {
		byName[a.Name()] = a
	}
	return &Ensemble{
		analyzers: analyzers,
		byName:    byName,
		logger:    logger.With().Str("component", "emotion-ensemble").Logger(),
	}
}

// Names returns the registered analyzer identifiers in priority order.
func (e *Ensemble) Names() []string {
	names := make([]string, 0, len(e.analyzers))
	for _, a := range e.analyzers {
		names = append(names, a.Name())
	}
	return names
}

// Availability reports, per analyzer, whether it is currently usable.
// Computed live so it reflects the current dependency state.
func (e *Ensemble) Availability() map[string]bool {
	out := make(map[string]bool, len(e.analyzers))
	for _, a := range e.analyzers {
		out[a.Name()] = a.IsAvailable()
	}
	return out
}

// Resolve analyzes the text with the highest-priority usable analyzer
// and returns the canonical level plus the identifier of the analyzer
// that produced it. The preferred analyzer, when set and registered, is
// tried first. Unavailable analyzers are skipped; an analyzer that is
// available but fails is logged and the walk continues. Only total
// exhaustion surfaces, as ErrNoAnalyzerAvailable.
func (e *Ensemble) Resolve(ctx context.Context, text, preferred string) (Level, string, error) {
	for _, a := range e.candidates(preferred) {
		if !a.IsAvailable() {
			e.logger.Debug().Str("analyzer", a.Name()).Msg("Analyzer unavailable, skipping")
			continue
		}

		score, err := a.Analyze(ctx, text)
		if err != nil {
			e.logger.Warn().
				Err(err).
				Str("analyzer", a.Name()).
				Msg("Analyzer failed, trying next candidate")
			continue
		}

		level := a.ScoreToLevel(score)
		e.logger.Info().
			Str("analyzer", a.Name()).
			Str("emotion", level.String()).
			Float64("confidence", score.Confidence).
			Msg("Emotion resolved")
		return level, a.Name(), nil
	}

	return Neutral, "", fmt.Errorf("%w: tried %v", ErrNoAnalyzerAvailable, e.Names())
}

// candidates returns the analyzer walk order: the preferred analyzer
// first when registered, then the default priority order, deduplicated.
func (e *Ensemble) candidates(preferred string) []Analyzer {
	out := make([]Analyzer, 0, len(e.analyzers))
	if a, ok := e.byName[preferred]; ok {
		out = append(out, a)
	} else if preferred != "" {
		e.logger.Warn().Str("analyzer", preferred).Msg("Preferred analyzer not registered")
	}
	for _, a := range e.analyzers {
		if a.Name() != preferred {
			out = append(out, a)
		}
	}
	return out
}
