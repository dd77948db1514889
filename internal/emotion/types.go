// Package emotion provides text emotion analysis services for the Empathy Engine.
package emotion

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrAnalyzerUnavailable = errors.New("emotion analyzer unavailable")
	ErrAnalysisFailed      = errors.New("emotion analysis failed")
	ErrNoAnalyzerAvailable = errors.New("no emotion analyzer available")
	ErrEmptyText           = errors.New("text is empty")
)

// Level is one of the seven canonical emotion intensity categories.
// Levels are totally ordered from most negative to most positive.
type Level int

const (
	VeryNegative Level = iota
	Negative
	SlightlyNegative
	Neutral
	SlightlyPositive
	Positive
	VeryPositive
)

var levelLabels = [...]string{
	VeryNegative:     "Very Negative",
	Negative:         "Negative",
	SlightlyNegative: "Slightly Negative",
	Neutral:          "Neutral",
	SlightlyPositive: "Slightly Positive",
	Positive:         "Positive",
	VeryPositive:     "Very Positive",
}

// String returns the display label for the level.
func (l Level) String() string {
	if l < VeryNegative || l > VeryPositive {
		return "Neutral"
	}
	return levelLabels[l]
}

// Levels returns all seven levels in ascending order.
func Levels() []Level {
	return []Level{
		VeryNegative, Negative, SlightlyNegative, Neutral,
		SlightlyPositive, Positive, VeryPositive,
	}
}

// Score is the raw output of one analyzer backend. Polarity-style
// backends fill Polarity in [-1, 1]; label-style backends fill Label
// and Confidence. Scores are transient and never persisted.
type Score struct {
	Polarity   float64 `json:"polarity"`
	Label      string  `json:"label,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Analyzer is the interface all emotion analysis backends implement.
type Analyzer interface {
	// Name returns the backend identifier (e.g. "vader", "classifier")
	Name() string

	// IsAvailable reports whether the backend can currently be used
	IsAvailable() bool

	// Analyze scores the text for emotional content
	Analyze(ctx context.Context, text string) (Score, error)

	// ScoreToLevel maps a raw score onto the canonical scale. The
	// mapping is pure and monotonic in the score's polarity.
	ScoreToLevel(score Score) Level
}

// polarityThresholds are the positive cut points for bucketing a
// continuous polarity in [-1, 1]; the negative cut points mirror them.
// thresholds[0] >= thresholds[1] >= thresholds[2].
type polarityThresholds [3]float64

// bucket maps a polarity value to a level. Higher polarity never maps
// to a lower level.
func (t polarityThresholds) bucket(polarity float64) Level {
	switch {
	case polarity >= t[0]:
		return VeryPositive
	case polarity >= t[1]:
		return Positive
	case polarity >= t[2]:
		return SlightlyPositive
	case polarity <= -t[0]:
		return VeryNegative
	case polarity <= -t[1]:
		return Negative
	case polarity <= -t[2]:
		return SlightlyNegative
	default:
		return Neutral
	}
}
