package emotion

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaderAnalyzer_Name(t *testing.T) {
	a := NewVaderAnalyzer(zerolog.Nop())
	assert.Equal(t, "vader", a.Name())
}

func TestVaderAnalyzer_AlwaysAvailable(t *testing.T) {
	a := NewVaderAnalyzer(zerolog.Nop())
	assert.True(t, a.IsAvailable())
}

func TestVaderAnalyzer_Analyze(t *testing.T) {
	a := NewVaderAnalyzer(zerolog.Nop())

	t.Run("enthusiastic text is very positive", func(t *testing.T) {
		score, err := a.Analyze(context.Background(), "I am absolutely thrilled today!")
		require.NoError(t, err)

		assert.Greater(t, score.Polarity, 0.6)
		assert.Equal(t, VeryPositive, a.ScoreToLevel(score))
	})

	t.Run("despairing text is negative", func(t *testing.T) {
		score, err := a.Analyze(context.Background(), "This is horrible, I hate everything about it.")
		require.NoError(t, err)

		assert.Negative(t, score.Polarity)
		assert.LessOrEqual(t, a.ScoreToLevel(score), Negative)
	})

	t.Run("flat text is neutral", func(t *testing.T) {
		score, err := a.Analyze(context.Background(), "The train departs at nine.")
		require.NoError(t, err)

		assert.Equal(t, Neutral, a.ScoreToLevel(score))
	})

	t.Run("empty text fails", func(t *testing.T) {
		_, err := a.Analyze(context.Background(), "")
		assert.ErrorIs(t, err, ErrAnalysisFailed)
	})

	t.Run("cancelled context fails", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := a.Analyze(ctx, "hello")
		assert.ErrorIs(t, err, ErrAnalysisFailed)
	})
}

func TestVaderAnalyzer_Deterministic(t *testing.T) {
	a := NewVaderAnalyzer(zerolog.Nop())

	first, err := a.Analyze(context.Background(), "What a wonderful day!")
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), "What a wonderful day!")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, a.ScoreToLevel(first), a.ScoreToLevel(second))
}

func TestVaderAnalyzer_ScoreToLevelMonotonic(t *testing.T) {
	a := NewVaderAnalyzer(zerolog.Nop())

	prev := VeryNegative
	for polarity := -1.0; polarity <= 1.0; polarity += 0.01 {
		level := a.ScoreToLevel(Score{Polarity: polarity})
		assert.GreaterOrEqual(t, level, prev)
		prev = level
	}
}
