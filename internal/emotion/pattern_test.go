package emotion

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/cdipaolo/sentiment"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternAnalyzer_Name(t *testing.T) {
	a := NewPatternAnalyzer(zerolog.Nop())
	assert.Equal(t, "pattern", a.Name())
}

func TestPatternAnalyzer_LazyLoad(t *testing.T) {
	t.Run("model loads on first use", func(t *testing.T) {
		a := NewPatternAnalyzer(zerolog.Nop())
		assert.True(t, a.IsAvailable())
		assert.NoError(t, a.loadErr)
	})

	t.Run("concurrent first calls load at most once", func(t *testing.T) {
		a := NewPatternAnalyzer(zerolog.Nop())

		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if i%2 == 0 {
					_, errs[i] = a.Analyze(context.Background(), "a fine day")
					return
				}
				if !a.IsAvailable() {
					errs[i] = errors.New("unavailable")
				}
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			assert.NoError(t, err)
		}
		assert.True(t, a.IsAvailable())
	})

	t.Run("restore failure makes analyzer unavailable", func(t *testing.T) {
		a := NewPatternAnalyzer(zerolog.Nop())
		a.loadOnce.Do(func() { a.loadErr = errors.New("model restore failed") })

		assert.False(t, a.IsAvailable())

		_, err := a.Analyze(context.Background(), "hello")
		assert.ErrorIs(t, err, ErrAnalyzerUnavailable)
	})
}

func TestPatternAnalyzer_Analyze(t *testing.T) {
	a := NewPatternAnalyzer(zerolog.Nop())

	t.Run("polarity bounded with matching confidence", func(t *testing.T) {
		score, err := a.Analyze(context.Background(), "the train was late again and the seats were broken")
		require.NoError(t, err)

		assert.GreaterOrEqual(t, score.Polarity, -1.0)
		assert.LessOrEqual(t, score.Polarity, 1.0)
		assert.InDelta(t, math.Abs(score.Polarity), score.Confidence, 1e-12)
	})

	t.Run("deterministic for identical text", func(t *testing.T) {
		first, err := a.Analyze(context.Background(), "what a wonderful performance")
		require.NoError(t, err)
		second, err := a.Analyze(context.Background(), "what a wonderful performance")
		require.NoError(t, err)

		assert.Equal(t, first.Polarity, second.Polarity)
		assert.Equal(t, a.ScoreToLevel(first), a.ScoreToLevel(second))
	})

	t.Run("empty text rejected", func(t *testing.T) {
		_, err := a.Analyze(context.Background(), "")
		assert.ErrorIs(t, err, ErrAnalysisFailed)
	})

	t.Run("cancelled context rejected", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := a.Analyze(ctx, "hello")
		assert.ErrorIs(t, err, ErrAnalysisFailed)
	})
}

func TestAggregatePolarity(t *testing.T) {
	tests := []struct {
		name     string
		analysis *sentiment.Analysis
		want     float64
	}{
		{
			name: "all words positive",
			analysis: &sentiment.Analysis{
				Words: []sentiment.Score{{Word: "great", Score: 1}, {Word: "fun", Score: 1}},
			},
			want: 1.0,
		},
		{
			name: "all words negative",
			analysis: &sentiment.Analysis{
				Words: []sentiment.Score{{Word: "awful", Score: 0}, {Word: "dull", Score: 0}},
			},
			want: -1.0,
		},
		{
			name: "mixed words average out",
			analysis: &sentiment.Analysis{
				Words: []sentiment.Score{{Word: "great", Score: 1}, {Word: "awful", Score: 0}},
			},
			want: 0.0,
		},
		{
			name: "three to one split",
			analysis: &sentiment.Analysis{
				Words: []sentiment.Score{
					{Word: "great", Score: 1}, {Word: "fun", Score: 1},
					{Word: "nice", Score: 1}, {Word: "dull", Score: 0},
				},
			},
			want: 0.5,
		},
		{
			name:     "no scored words falls back to sentence class positive",
			analysis: &sentiment.Analysis{Score: 1},
			want:     1.0,
		},
		{
			name:     "no scored words falls back to sentence class negative",
			analysis: &sentiment.Analysis{Score: 0},
			want:     -1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, aggregatePolarity(tt.analysis), 1e-12)
		})
	}
}

func TestPatternAnalyzer_ScoreToLevel(t *testing.T) {
	a := NewPatternAnalyzer(zerolog.Nop())

	tests := []struct {
		polarity float64
		want     Level
	}{
		{0.8, VeryPositive},
		{0.5, VeryPositive},
		{0.3, Positive},
		{0.07, SlightlyPositive},
		{0.0, Neutral},
		{-0.07, SlightlyNegative},
		{-0.3, Negative},
		{-0.8, VeryNegative},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, a.ScoreToLevel(Score{Polarity: tt.polarity}),
			"polarity %v", tt.polarity)
	}
}
