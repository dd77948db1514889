// Package voice maps canonical emotion levels to backend-specific
// voice parameters for the Empathy Engine.
package voice

import (
	"fmt"
	"sort"

	"github.com/empathyengine/empathyengine/internal/emotion"
)

// Parameters is the per-backend voice configuration bag. Each synthesis
// backend reads the fields it understands and ignores the rest. A fresh
// value is produced per request and discarded after synthesis.
type Parameters struct {
	Voice          string  `json:"voice,omitempty"`            // voice identifier
	Language       string  `json:"language,omitempty"`         // BCP-47 language code
	Gender         string  `json:"gender,omitempty"`           // MALE / FEMALE
	SpeakingRate   float64 `json:"speaking_rate,omitempty"`    // relative rate, 1.0 = normal
	WordsPerMinute int     `json:"words_per_minute,omitempty"` // absolute rate for subprocess engines
	Pitch          int     `json:"pitch,omitempty"`            // 0-99, espeak scale
	Amplitude      int     `json:"amplitude,omitempty"`        // 0-200, espeak scale
	StyleHint      string  `json:"style_hint,omitempty"`       // delivery instruction for LLM voices
}

// Mapper resolves (level, backend) to voice parameters against fixed
// per-backend tables declared at startup. Every level of every
// registered backend must have an entry; Validate enforces this before
// the first request is served.
type Mapper struct {
	tables map[string]map[emotion.Level]Parameters
}

// NewMapper builds a mapper with the default tables for all builtin
// synthesis backends.
func NewMapper() *Mapper {
	return &Mapper{
		tables: map[string]map[emotion.Level]Parameters{
			"openai":      openaiTable,
			"googlecloud": googleCloudTable,
			"gemini":      geminiTable,
			"espeak":      espeakTable,
			"say":         sayTable,
		},
	}
}

// Register declares the table for an additional backend. Called during
// startup wiring, before Validate; never during request handling.
func (m *Mapper) Register(backend string, table map[emotion.Level]Parameters) {
	m.tables[backend] = table
}

// Backends returns the backend identifiers the mapper knows, sorted.
func (m *Mapper) Backends() []string {
	out := make([]string, 0, len(m.tables))
	for name := range m.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// MapVoice returns the voice parameters for the level and backend. A
// missing entry is a configuration defect that Validate catches at
// startup, so the error path here only fires for unregistered backends.
func (m *Mapper) MapVoice(level emotion.Level, backend string) (Parameters, error) {
	table, ok := m.tables[backend]
	if !ok {
		return Parameters{}, fmt.Errorf("no voice table for backend %q", backend)
	}
	params, ok := table[level]
	if !ok {
		return Parameters{}, fmt.Errorf("no voice parameters for %s on backend %q", level, backend)
	}
	return params, nil
}

// Validate asserts that every registered backend has an entry for every
// one of the seven levels. Called once at startup.
func (m *Mapper) Validate(backends []string) error {
	for _, backend := range backends {
		table, ok := m.tables[backend]
		if !ok {
			return fmt.Errorf("backend %q has no voice table", backend)
		}
		for _, level := range emotion.Levels() {
			if _, ok := table[level]; !ok {
				return fmt.Errorf("backend %q missing voice parameters for %s", backend, level)
			}
		}
	}
	return nil
}

// openaiTable picks an OpenAI voice and speed per level: brighter,
// faster voices toward the positive end, deeper and slower toward the
// negative end.
var openaiTable = map[emotion.Level]Parameters{
	emotion.VeryPositive:     {Voice: "nova", SpeakingRate: 1.15},
	emotion.Positive:         {Voice: "shimmer", SpeakingRate: 1.08},
	emotion.SlightlyPositive: {Voice: "alloy", SpeakingRate: 1.02},
	emotion.Neutral:          {Voice: "alloy", SpeakingRate: 1.0},
	emotion.SlightlyNegative: {Voice: "fable", SpeakingRate: 0.95},
	emotion.Negative:         {Voice: "echo", SpeakingRate: 0.9},
	emotion.VeryNegative:     {Voice: "onyx", SpeakingRate: 0.82},
}

// googleCloudTable assigns a Wavenet voice per level; speaking rate
// only departs from 1.0 at the extremes.
var googleCloudTable = map[emotion.Level]Parameters{
	emotion.VeryPositive:     {Voice: "en-US-Wavenet-H", Gender: "FEMALE", Language: "en-US", SpeakingRate: 1.2},
	emotion.Positive:         {Voice: "en-US-Wavenet-C", Gender: "FEMALE", Language: "en-US", SpeakingRate: 1.0},
	emotion.SlightlyPositive: {Voice: "en-US-Wavenet-E", Gender: "MALE", Language: "en-US", SpeakingRate: 1.0},
	emotion.Neutral:          {Voice: "en-US-Wavenet-D", Gender: "MALE", Language: "en-US", SpeakingRate: 1.0},
	emotion.SlightlyNegative: {Voice: "en-US-Wavenet-B", Gender: "MALE", Language: "en-US", SpeakingRate: 1.0},
	emotion.Negative:         {Voice: "en-US-Wavenet-A", Gender: "MALE", Language: "en-US", SpeakingRate: 1.0},
	emotion.VeryNegative:     {Voice: "en-US-Wavenet-I", Gender: "MALE", Language: "en-US", SpeakingRate: 0.8},
}

// geminiTable pairs a prebuilt Gemini voice with a delivery instruction
// folded into the system prompt.
var geminiTable = map[emotion.Level]Parameters{
	emotion.VeryPositive:     {Voice: "Zephyr", StyleHint: "a bright, delighted tone"},
	emotion.Positive:         {Voice: "Aoede", StyleHint: "a warm, upbeat tone"},
	emotion.SlightlyPositive: {Voice: "Puck", StyleHint: "a friendly tone"},
	emotion.Neutral:          {Voice: "Kore", StyleHint: "an even, measured tone"},
	emotion.SlightlyNegative: {Voice: "Charon", StyleHint: "a subdued tone"},
	emotion.Negative:         {Voice: "Fenrir", StyleHint: "a low, serious tone"},
	emotion.VeryNegative:     {Voice: "Orus", StyleHint: "a slow, somber tone"},
}

// espeakTable ramps rate, pitch and amplitude down from the positive to
// the negative end of the scale.
var espeakTable = map[emotion.Level]Parameters{
	emotion.VeryPositive:     {Voice: "en", WordsPerMinute: 200, Pitch: 60, Amplitude: 180},
	emotion.Positive:         {Voice: "en", WordsPerMinute: 180, Pitch: 55, Amplitude: 160},
	emotion.SlightlyPositive: {Voice: "en", WordsPerMinute: 170, Pitch: 52, Amplitude: 150},
	emotion.Neutral:          {Voice: "en", WordsPerMinute: 160, Pitch: 50, Amplitude: 140},
	emotion.SlightlyNegative: {Voice: "en", WordsPerMinute: 140, Pitch: 46, Amplitude: 120},
	emotion.Negative:         {Voice: "en", WordsPerMinute: 130, Pitch: 42, Amplitude: 110},
	emotion.VeryNegative:     {Voice: "en", WordsPerMinute: 120, Pitch: 38, Amplitude: 100},
}

// sayTable picks a macOS system voice and rate per level.
var sayTable = map[emotion.Level]Parameters{
	emotion.VeryPositive:     {Voice: "Samantha", WordsPerMinute: 200},
	emotion.Positive:         {Voice: "Kathy", WordsPerMinute: 180},
	emotion.SlightlyPositive: {Voice: "Alex", WordsPerMinute: 170},
	emotion.Neutral:          {Voice: "Alex", WordsPerMinute: 160},
	emotion.SlightlyNegative: {Voice: "Tom", WordsPerMinute: 140},
	emotion.Negative:         {Voice: "Ralph", WordsPerMinute: 130},
	emotion.VeryNegative:     {Voice: "Fred", WordsPerMinute: 120},
}
