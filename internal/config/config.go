// Package config provides configuration management for the Empathy Engine
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is read once at
// process start; the core treats it as immutable afterwards.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Emotion     EmotionConfig     `mapstructure:"emotion"`
	TTS         TTSConfig         `mapstructure:"tts"`
	OpenAI      OpenAIConfig      `mapstructure:"openai"`
	GoogleCloud GoogleCloudConfig `mapstructure:"google_cloud"`
	Gemini      GeminiConfig      `mapstructure:"gemini"`
	Espeak      EspeakConfig      `mapstructure:"espeak"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig configures the HTTP surface
type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	MaxTextLength int           `mapstructure:"max_text_length"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
}

// EmotionConfig selects and tunes the analyzer backends
type EmotionConfig struct {
	Engine          string   `mapstructure:"engine"` // classifier, vader, pattern
	LabelPrecedence []string `mapstructure:"label_precedence"`
	TieWindow       float64  `mapstructure:"tie_window"`
}

// TTSConfig selects the synthesis engine and its fallback chain
type TTSConfig struct {
	Engine         string        `mapstructure:"engine"` // openai, googlecloud, gemini, espeak, say
	Fallbacks      []string      `mapstructure:"fallbacks"`
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
}

// OpenAIConfig holds OpenAI credentials and model selection, shared by
// the classifier analyzer and the TTS engine
type OpenAIConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	TTSModel  string        `mapstructure:"tts_model"`
	ChatModel string        `mapstructure:"chat_model"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// GoogleCloudConfig holds Google Cloud TTS credentials
type GoogleCloudConfig struct {
	AccessToken     string `mapstructure:"access_token"`
	Project         string `mapstructure:"project"`
	CredentialsPath string `mapstructure:"credentials_path"`
}

// GeminiConfig holds Gemini credentials and model selection
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// EspeakConfig configures the espeak-ng binary
type EspeakConfig struct {
	BinPath string `mapstructure:"bin_path"`
}

// LoggingConfig configures log output
type LoggingConfig struct {
	Dir     string `mapstructure:"dir"`
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Server: ServerConfig{
			Addr:          ":8080",
			MaxTextLength: 1000,
			ReadTimeout:   15 * time.Second,
			WriteTimeout:  2 * time.Minute,
		},
		Emotion: EmotionConfig{
			Engine:    "classifier",
			TieWindow: 0.05,
		},
		TTS: TTSConfig{
			Engine:         "openai",
			Fallbacks:      []string{"googlecloud", "gemini", "espeak"},
			AttemptTimeout: 60 * time.Second,
		},
		OpenAI: OpenAIConfig{
			TTSModel:  "tts-1",
			ChatModel: "gpt-4o-mini",
			Timeout:   30 * time.Second,
		},
		Gemini: GeminiConfig{
			Model: "models/gemini-2.5-flash-native-audio-preview-12-2025",
		},
		Espeak: EspeakConfig{
			BinPath: "espeak-ng",
		},
		Logging: LoggingConfig{
			Dir:     filepath.Join(home, ".empathyengine", "logs"),
			Level:   "info",
			Console: true,
		},
	}
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return cfg, err
	}

	configDir := filepath.Join(homeDir, ".empathyengine")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Seed every key so env overrides apply even before a config file
	// exists.
	setDefaults(v, cfg)

	// Environment variable overrides
	v.SetEnvPrefix("EMPATHYENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional variable names used by the backends themselves
	bindLegacyEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
		// First run: write the defaults so there is a file to edit.
		if saveErr := Save(cfg); saveErr != nil {
			return cfg, saveErr
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return cfg, err
	}

	// FALLBACK_TTS arrives as a comma list when set via environment
	cfg.TTS.Fallbacks = normalizeList(cfg.TTS.Fallbacks)

	return cfg, nil
}

// setDefaults mirrors the default configuration into viper's key set.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.max_text_length", cfg.Server.MaxTextLength)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("emotion.engine", cfg.Emotion.Engine)
	v.SetDefault("emotion.label_precedence", cfg.Emotion.LabelPrecedence)
	v.SetDefault("emotion.tie_window", cfg.Emotion.TieWindow)
	v.SetDefault("tts.engine", cfg.TTS.Engine)
	v.SetDefault("tts.fallbacks", cfg.TTS.Fallbacks)
	v.SetDefault("tts.attempt_timeout", cfg.TTS.AttemptTimeout)
	v.SetDefault("openai.api_key", cfg.OpenAI.APIKey)
	v.SetDefault("openai.tts_model", cfg.OpenAI.TTSModel)
	v.SetDefault("openai.chat_model", cfg.OpenAI.ChatModel)
	v.SetDefault("openai.timeout", cfg.OpenAI.Timeout)
	v.SetDefault("google_cloud.access_token", cfg.GoogleCloud.AccessToken)
	v.SetDefault("google_cloud.project", cfg.GoogleCloud.Project)
	v.SetDefault("google_cloud.credentials_path", cfg.GoogleCloud.CredentialsPath)
	v.SetDefault("gemini.api_key", cfg.Gemini.APIKey)
	v.SetDefault("gemini.model", cfg.Gemini.Model)
	v.SetDefault("espeak.bin_path", cfg.Espeak.BinPath)
	v.SetDefault("logging.dir", cfg.Logging.Dir)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.console", cfg.Logging.Console)
}

// Save writes the configuration to the config file
func Save(cfg *Config) error {
	configDir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	v := viper.New()
	v.Set("server", cfg.Server)
	v.Set("emotion", cfg.Emotion)
	v.Set("tts", cfg.TTS)
	v.Set("openai", cfg.OpenAI)
	v.Set("google_cloud", cfg.GoogleCloud)
	v.Set("gemini", cfg.Gemini)
	v.Set("espeak", cfg.Espeak)
	v.Set("logging", cfg.Logging)

	return v.WriteConfigAs(filepath.Join(configDir, "config.yaml"))
}

// Dir returns the configuration directory path
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".empathyengine"), nil
}

// bindLegacyEnv maps the conventional environment variable names onto
// config keys so deployments keep working without the prefix.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("emotion.engine", "EMPATHYENGINE_EMOTION_ENGINE", "EMOTION_ENGINE")
	_ = v.BindEnv("tts.engine", "EMPATHYENGINE_TTS_ENGINE", "TTS_ENGINE")
	_ = v.BindEnv("tts.fallbacks", "EMPATHYENGINE_TTS_FALLBACKS", "FALLBACK_TTS")
	_ = v.BindEnv("server.max_text_length", "EMPATHYENGINE_SERVER_MAX_TEXT_LENGTH", "MAX_TEXT_LENGTH")
	_ = v.BindEnv("openai.api_key", "EMPATHYENGINE_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("gemini.api_key", "EMPATHYENGINE_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("google_cloud.access_token", "EMPATHYENGINE_GOOGLE_CLOUD_ACCESS_TOKEN", "GOOGLE_TTS_ACCESS_TOKEN")
	_ = v.BindEnv("google_cloud.project", "EMPATHYENGINE_GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_PROJECT")
	_ = v.BindEnv("google_cloud.credentials_path", "EMPATHYENGINE_GOOGLE_CLOUD_CREDENTIALS_PATH", "GOOGLE_APPLICATION_CREDENTIALS")
}

func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, p := range strings.Split(item, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
