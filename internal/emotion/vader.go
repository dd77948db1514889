// Package emotion provides the VADER lexicon analyzer backend.
package emotion

import (
	"context"
	"fmt"
	"math"

	"github.com/jonreiter/govader"
	"github.com/rs/zerolog"
)

// vaderThresholds are the compound score cut points. VADER compounds
// concentrate near zero, so the positive band starts at 0.05.
var vaderThresholds = polarityThresholds{0.6, 0.2, 0.05}

// VaderAnalyzer scores text with the VADER sentiment lexicon. It runs
// fully in-process and is always available.
type VaderAnalyzer struct {
	analyzer *govader.SentimentIntensityAnalyzer
	logger   zerolog.Logger
}

// NewVaderAnalyzer creates a new VADER analyzer backend.
func NewVaderAnalyzer(logger zerolog.Logger) *VaderAnalyzer {
	return &VaderAnalyzer{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
		logger:   logger.With().Str("analyzer", "vader").Logger(),
	}
}

// Name returns the backend identifier.
func (a *VaderAnalyzer) Name() string {
	return "vader"
}

// IsAvailable always reports true; the lexicon ships with the binary.
func (a *VaderAnalyzer) IsAvailable() bool {
	return true
}

// Analyze scores the text and returns its compound polarity.
func (a *VaderAnalyzer) Analyze(ctx context.Context, text string) (Score, error) {
	if text == "" {
		return Score{}, fmt.Errorf("%w: %s", ErrAnalysisFailed, ErrEmptyText)
	}
	if err := ctx.Err(); err != nil {
		return Score{}, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	sentiment := a.analyzer.PolarityScores(text)

	a.logger.Debug().
		Float64("compound", sentiment.Compound).
		Float64("positive", sentiment.Positive).
		Float64("negative", sentiment.Negative).
		Msg("VADER analysis complete")

	return Score{
		Polarity:   sentiment.Compound,
		Confidence: math.Abs(sentiment.Compound),
	}, nil
}

// ScoreToLevel buckets the compound score onto the canonical scale.
func (a *VaderAnalyzer) ScoreToLevel(score Score) Level {
	return vaderThresholds.bucket(score.Polarity)
}
