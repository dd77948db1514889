package emotion

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAnalyzer is a scriptable analyzer backend for resolver tests.
type stubAnalyzer struct {
	name      string
	available bool
	level     Level
	err       error
	calls     int
}

func (s *stubAnalyzer) Name() string        { return s.name }
func (s *stubAnalyzer) IsAvailable() bool   { return s.available }
func (s *stubAnalyzer) ScoreToLevel(score Score) Level { return s.level }

func (s *stubAnalyzer) Analyze(ctx context.Context, text string) (Score, error) {
	s.calls++
	if s.err != nil {
		return Score{}, s.err
	}
	return Score{Confidence: 1}, nil
}

func TestEnsemble_Resolve(t *testing.T) {
	t.Run("uses highest priority available analyzer", func(t *testing.T) {
		first := &stubAnalyzer{name: "first", available: true, level: Positive}
		second := &stubAnalyzer{name: "second", available: true, level: Negative}
		e := NewEnsemble(zerolog.Nop(), first, second)

		level, used, err := e.Resolve(context.Background(), "text", "")
		require.NoError(t, err)

		assert.Equal(t, Positive, level)
		assert.Equal(t, "first", used)
		assert.Equal(t, 1, first.calls)
		assert.Equal(t, 0, second.calls)
	})

	t.Run("preferred analyzer tried first", func(t *testing.T) {
		first := &stubAnalyzer{name: "first", available: true, level: Positive}
		second := &stubAnalyzer{name: "second", available: true, level: Negative}
		e := NewEnsemble(zerolog.Nop(), first, second)

		level, used, err := e.Resolve(context.Background(), "text", "second")
		require.NoError(t, err)

		assert.Equal(t, Negative, level)
		assert.Equal(t, "second", used)
		assert.Equal(t, 0, first.calls)
	})

	t.Run("unavailable preferred falls through to next priority", func(t *testing.T) {
		preferred := &stubAnalyzer{name: "preferred", available: false, level: VeryPositive}
		backup := &stubAnalyzer{name: "backup", available: true, level: SlightlyPositive}
		e := NewEnsemble(zerolog.Nop(), preferred, backup)

		level, used, err := e.Resolve(context.Background(), "text", "preferred")
		require.NoError(t, err)

		assert.Equal(t, SlightlyPositive, level)
		assert.Equal(t, "backup", used)
		assert.Equal(t, 0, preferred.calls, "unavailable analyzer must not be invoked")
	})

	t.Run("failing analyzer is skipped not fatal", func(t *testing.T) {
		failing := &stubAnalyzer{name: "failing", available: true, err: errors.New("model exploded")}
		backup := &stubAnalyzer{name: "backup", available: true, level: Neutral}
		e := NewEnsemble(zerolog.Nop(), failing, backup)

		level, used, err := e.Resolve(context.Background(), "text", "")
		require.NoError(t, err)

		assert.Equal(t, Neutral, level)
		assert.Equal(t, "backup", used)
		assert.Equal(t, 1, failing.calls, "available-but-failing analyzer is attempted")
	})

	t.Run("unknown preference falls back to default order", func(t *testing.T) {
		only := &stubAnalyzer{name: "only", available: true, level: Positive}
		e := NewEnsemble(zerolog.Nop(), only)

		_, used, err := e.Resolve(context.Background(), "text", "nonexistent")
		require.NoError(t, err)
		assert.Equal(t, "only", used)
	})

	t.Run("total exhaustion is fatal", func(t *testing.T) {
		down := &stubAnalyzer{name: "down", available: false}
		broken := &stubAnalyzer{name: "broken", available: true, err: errors.New("nope")}
		e := NewEnsemble(zerolog.Nop(), down, broken)

		_, _, err := e.Resolve(context.Background(), "text", "")
		assert.ErrorIs(t, err, ErrNoAnalyzerAvailable)
	})
}

func TestEnsemble_Deterministic(t *testing.T) {
	first := &stubAnalyzer{name: "first", available: true, level: Positive}
	second := &stubAnalyzer{name: "second", available: true, level: Negative}
	e := NewEnsemble(zerolog.Nop(), first, second)

	level1, used1, err := e.Resolve(context.Background(), "same text", "")
	require.NoError(t, err)
	level2, used2, err := e.Resolve(context.Background(), "same text", "")
	require.NoError(t, err)

	assert.Equal(t, level1, level2)
	assert.Equal(t, used1, used2)
}

func TestEnsemble_Availability(t *testing.T) {
	up := &stubAnalyzer{name: "up", available: true}
	down := &stubAnalyzer{name: "down", available: false}
	e := NewEnsemble(zerolog.Nop(), up, down)

	avail := e.Availability()
	assert.Equal(t, map[string]bool{"up": true, "down": false}, avail)

	// Availability must reflect state changes, not a cached snapshot.
	down.available = true
	assert.True(t, e.Availability()["down"])
}

func TestEnsemble_Names(t *testing.T) {
	e := NewEnsemble(zerolog.Nop(),
		&stubAnalyzer{name: "a"},
		&stubAnalyzer{name: "b"},
		&stubAnalyzer{name: "c"},
	)
	assert.Equal(t, []string{"a", "b", "c"}, e.Names())
}
