// Package emotion provides the naive-bayes pattern analyzer backend.
package emotion

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/cdipaolo/sentiment"
	"github.com/rs/zerolog"
)

// patternThresholds match the wider bands a word-level polarity model
// needs compared to VADER's compound score.
var patternThresholds = polarityThresholds{0.5, 0.1, 0.05}

// PatternAnalyzer scores text with a pre-trained naive-bayes sentiment
// model. The model is restored lazily on first use; the restore is
// guarded so concurrent first callers load it at most once.
type PatternAnalyzer struct {
	logger zerolog.Logger

	loadOnce sync.Once
	model    sentiment.Models
	loadErr  error
}

// NewPatternAnalyzer creates a new pattern analyzer backend. The
// heavyweight model load is deferred until the first Analyze call.
func NewPatternAnalyzer(logger zerolog.Logger) *PatternAnalyzer {
	return &PatternAnalyzer{
		logger: logger.With().Str("analyzer", "pattern").Logger(),
	}
}

// Name returns the backend identifier.
func (a *PatternAnalyzer) Name() string {
	return "pattern"
}

// IsAvailable reports whether the model can be (or has been) loaded.
func (a *PatternAnalyzer) IsAvailable() bool {
	a.load()
	return a.loadErr == nil
}

// load restores the sentiment model exactly once.
func (a *PatternAnalyzer) load() {
	a.loadOnce.Do(func() {
		model, err := sentiment.Restore()
		if err != nil {
			a.loadErr = err
			a.logger.Warn().Err(err).Msg("Could not restore sentiment model")
			return
		}
		a.model = model
		a.logger.Info().Msg("Sentiment model restored")
	})
}

// Analyze scores the text word by word and aggregates a polarity.
func (a *PatternAnalyzer) Analyze(ctx context.Context, text string) (Score, error) {
	if text == "" {
		return Score{}, fmt.Errorf("%w: %s", ErrAnalysisFailed, ErrEmptyText)
	}

	a.load()
	if a.loadErr != nil {
		return Score{}, fmt.Errorf("%w: restore model: %v", ErrAnalyzerUnavailable, a.loadErr)
	}
	if err := ctx.Err(); err != nil {
		return Score{}, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	analysis := a.model.SentimentAnalysis(text, sentiment.English)
	polarity := aggregatePolarity(analysis)

	a.logger.Debug().
		Float64("polarity", polarity).
		Int("words", len(analysis.Words)).
		Msg("Pattern analysis complete")

	return Score{
		Polarity:   polarity,
		Confidence: math.Abs(polarity),
	}, nil
}

// aggregatePolarity folds a model analysis into a polarity in [-1, 1].
// The model classifies each word 0 (negative) or 1 (positive); the word
// classes are averaged, falling back to the whole-sentence class when
// no words were scored.
func aggregatePolarity(analysis *sentiment.Analysis) float64 {
	if len(analysis.Words) == 0 {
		return 2*float64(analysis.Score) - 1
	}
	var sum float64
	for _, w := range analysis.Words {
		sum += 2*float64(w.Score) - 1
	}
	return sum / float64(len(analysis.Words))
}

// ScoreToLevel buckets the aggregated polarity onto the canonical scale.
func (a *PatternAnalyzer) ScoreToLevel(score Score) Level {
	return patternThresholds.bucket(score.Polarity)
}
