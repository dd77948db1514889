// Package emotion provides the LLM emotion classifier backend.
package emotion

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// Discrete emotion labels the classifier is asked to choose between.
const (
	LabelJoy      = "joy"
	LabelSurprise = "surprise"
	LabelNeutral  = "neutral"
	LabelSadness  = "sadness"
	LabelAnger    = "anger"
	LabelFear     = "fear"
	LabelDisgust  = "disgust"
)

// classifierLevels maps each discrete label onto the canonical scale.
var classifierLevels = map[string]Level{
	LabelJoy:      VeryPositive,
	LabelSurprise: Positive,
	LabelNeutral:  Neutral,
	LabelSadness:  Negative,
	LabelAnger:    VeryNegative,
	LabelFear:     VeryNegative,
	LabelDisgust:  Negative,
}

// DefaultLabelPrecedence is the fixed tie-break order applied when the
// top label confidences are within the tie window. Negative labels come
// last so a near-tie never darkens the rendering arbitrarily.
func DefaultLabelPrecedence() []string {
	return []string{
		LabelJoy, LabelSurprise, LabelNeutral,
		LabelSadness, LabelDisgust, LabelAnger, LabelFear,
	}
}

// ClassifierConfig holds LLM classifier configuration
type ClassifierConfig struct {
	APIKey    string        `json:"api_key"`
	Model     string        `json:"model"`
	BaseURL   string        `json:"base_url"` // override for self-hosted gateways
	Timeout   time.Duration `json:"timeout"`
	TieWindow float64       `json:"tie_window"` // confidence gap treated as a tie
	// Precedence is the tie-break order, highest priority first.
	Precedence []string `json:"precedence"`
}

// DefaultClassifierConfig returns sensible defaults
func DefaultClassifierConfig() *ClassifierConfig {
	return &ClassifierConfig{
		Model:      openai.GPT4oMini,
		Timeout:    30 * time.Second,
		TieWindow:  0.05,
		Precedence: DefaultLabelPrecedence(),
	}
}

// ClassifierAnalyzer classifies text into discrete emotion labels via
// an LLM chat completion and maps the winning label onto the scale.
type ClassifierAnalyzer struct {
	client     *openai.Client
	apiKey     string
	config     *ClassifierConfig
	precedence map[string]int
	logger     zerolog.Logger
}

// NewClassifierAnalyzer creates a new LLM classifier backend.
func NewClassifierAnalyzer(logger zerolog.Logger, config *ClassifierConfig) *ClassifierAnalyzer {
	if config == nil {
		config = DefaultClassifierConfig()
	}

	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	cc := openai.DefaultConfig(apiKey)
	if config.BaseURL != "" {
		cc.BaseURL = config.BaseURL
	}

	precedence := config.Precedence
	if len(precedence) == 0 {
		precedence = DefaultLabelPrecedence()
	}
	rank := make(map[string]int, len(precedence))
	for i, label := range precedence {
		rank[label] = i
	}

	return &ClassifierAnalyzer{
		client:     openai.NewClientWithConfig(cc),
		apiKey:     apiKey,
		config:     config,
		precedence: rank,
		logger:     logger.With().Str("analyzer", "classifier").Logger(),
	}
}

// Name returns the backend identifier.
func (a *ClassifierAnalyzer) Name() string {
	return "classifier"
}

// IsAvailable reports whether an API key is configured.
func (a *ClassifierAnalyzer) IsAvailable() bool {
	return a.apiKey != ""
}

const classifierPrompt = `Classify the dominant emotion of the user's text.
Respond with JSON only, of the form
{"labels":[{"label":"joy","confidence":0.93},...]}
listing every applicable label from: joy, surprise, neutral, sadness, anger, fear, disgust,
ordered by confidence, confidences in [0,1].`

// classifierResponse is the JSON shape the model is instructed to emit.
type classifierResponse struct {
	Labels []struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	} `json:"labels"`
}

// Analyze classifies the text and returns the winning label.
func (a *ClassifierAnalyzer) Analyze(ctx context.Context, text string) (Score, error) {
	if !a.IsAvailable() {
		return Score{}, fmt.Errorf("%w: classifier API key not configured", ErrAnalyzerUnavailable)
	}
	if text == "" {
		return Score{}, fmt.Errorf("%w: %s", ErrAnalysisFailed, ErrEmptyText)
	}

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.config.Model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifierPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return Score{}, fmt.Errorf("%w: chat completion: %v", ErrAnalysisFailed, err)
	}
	if len(resp.Choices) == 0 {
		return Score{}, fmt.Errorf("%w: empty completion", ErrAnalysisFailed)
	}

	var parsed classifierResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return Score{}, fmt.Errorf("%w: decode labels: %v", ErrAnalysisFailed, err)
	}
	if len(parsed.Labels) == 0 {
		return Score{}, fmt.Errorf("%w: no labels returned", ErrAnalysisFailed)
	}

	label, confidence := a.pickLabel(parsed)

	a.logger.Debug().
		Str("label", label).
		Float64("confidence", confidence).
		Int("candidates", len(parsed.Labels)).
		Msg("Classifier analysis complete")

	return Score{Label: label, Confidence: confidence}, nil
}

// pickLabel selects the winning label: highest confidence, with labels
// inside the tie window resolved by the configured precedence order.
func (a *ClassifierAnalyzer) pickLabel(resp classifierResponse) (string, float64) {
	best := -1.0
	for _, c := range resp.Labels {
		if c.Confidence > best {
			best = c.Confidence
		}
	}

	winner := ""
	winnerConf := 0.0
	winnerRank := len(a.precedence) + 1
	for _, c := range resp.Labels {
		if best-c.Confidence > a.config.TieWindow {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(c.Label))
		rank, known := a.precedence[label]
		if !known {
			rank = len(a.precedence)
		}
		if winner == "" || rank < winnerRank {
			winner = label
			winnerConf = c.Confidence
			winnerRank = rank
		}
	}
	return winner, winnerConf
}

// ScoreToLevel maps the label onto the canonical scale via the fixed
// lookup table; unknown labels map to Neutral.
func (a *ClassifierAnalyzer) ScoreToLevel(score Score) Level {
	if level, ok := classifierLevels[strings.ToLower(score.Label)]; ok {
		return level
	}
	return Neutral
}
