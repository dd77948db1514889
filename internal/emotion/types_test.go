package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelOrdering(t *testing.T) {
	levels := Levels()

	assert.Len(t, levels, 7)
	for i := 1; i < len(levels); i++ {
		assert.Less(t, levels[i-1], levels[i], "levels must be strictly ordered")
	}
	assert.Equal(t, VeryNegative, levels[0])
	assert.Equal(t, VeryPositive, levels[len(levels)-1])
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{VeryNegative, "Very Negative"},
		{Negative, "Negative"},
		{SlightlyNegative, "Slightly Negative"},
		{Neutral, "Neutral"},
		{SlightlyPositive, "Slightly Positive"},
		{Positive, "Positive"},
		{VeryPositive, "Very Positive"},
		{Level(42), "Neutral"},
		{Level(-3), "Neutral"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

func TestPolarityBucketMonotonic(t *testing.T) {
	thresholds := []polarityThresholds{
		vaderThresholds,
		patternThresholds,
		{0.9, 0.5, 0.1},
	}

	for _, th := range thresholds {
		prev := VeryNegative
		for polarity := -1.0; polarity <= 1.0; polarity += 0.001 {
			level := th.bucket(polarity)
			assert.GreaterOrEqual(t, level, prev,
				"bucketing must be monotonic at polarity %f", polarity)
			prev = level
		}
	}
}

func TestPolarityBucketBounds(t *testing.T) {
	assert.Equal(t, VeryPositive, vaderThresholds.bucket(1.0))
	assert.Equal(t, VeryNegative, vaderThresholds.bucket(-1.0))
	assert.Equal(t, Neutral, vaderThresholds.bucket(0.0))
	assert.Equal(t, VeryPositive, vaderThresholds.bucket(0.6))
	assert.Equal(t, Positive, vaderThresholds.bucket(0.59))
	assert.Equal(t, SlightlyPositive, vaderThresholds.bucket(0.05))
	assert.Equal(t, SlightlyNegative, vaderThresholds.bucket(-0.05))
	assert.Equal(t, Negative, vaderThresholds.bucket(-0.2))
	assert.Equal(t, VeryNegative, vaderThresholds.bucket(-0.6))
}
