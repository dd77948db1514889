// Empathy Engine converts text into an emotion-tagged audio rendering:
// it scores the text's emotional content with an ensemble of analyzer
// backends, maps the detected emotion to voice parameters, and renders
// audio through a fallback chain of synthesis backends.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/empathyengine/empathyengine/internal/config"
	"github.com/empathyengine/empathyengine/internal/emotion"
	"github.com/empathyengine/empathyengine/internal/engine"
	"github.com/empathyengine/empathyengine/internal/httpapi"
	"github.com/empathyengine/empathyengine/internal/logging"
	"github.com/empathyengine/empathyengine/internal/tts"
	"github.com/empathyengine/empathyengine/internal/voice"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logs, err := logging.New(&logging.Config{
		Dir:     cfg.Logging.Dir,
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logging:", err)
		os.Exit(1)
	}
	defer logs.Close()
	logger := logs.Logger()

	// Analyzer backends, most discriminative first.
	ensemble := emotion.NewEnsemble(logger,
		emotion.NewClassifierAnalyzer(logger, &emotion.ClassifierConfig{
			APIKey:     cfg.OpenAI.APIKey,
			Model:      cfg.OpenAI.ChatModel,
			Timeout:    cfg.OpenAI.Timeout,
			TieWindow:  cfg.Emotion.TieWindow,
			Precedence: cfg.Emotion.LabelPrecedence,
		}),
		emotion.NewVaderAnalyzer(logger),
		emotion.NewPatternAnalyzer(logger),
	)

	// Synthesis backends in default priority order.
	engines := []tts.Engine{
		tts.NewOpenAIEngine(logger, &tts.OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.TTSModel,
			Timeout: cfg.OpenAI.Timeout,
		}),
		tts.NewGoogleCloudEngine(logger, &tts.GoogleCloudConfig{
			AccessToken:     cfg.GoogleCloud.AccessToken,
			Project:         cfg.GoogleCloud.Project,
			CredentialsPath: cfg.GoogleCloud.CredentialsPath,
			Timeout:         20 * time.Second,
		}),
		tts.NewGeminiEngine(logger, &tts.GeminiConfig{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		}),
		tts.NewEspeakEngine(logger, &tts.EspeakConfig{
			BinPath: cfg.Espeak.BinPath,
		}),
		tts.NewSayEngine(logger),
	}

	mapper := voice.NewMapper()
	names := make([]string, 0, len(engines))
	for _, eng := range engines {
		names = append(names, eng.Name())
	}
	if err := mapper.Validate(names); err != nil {
		logger.Fatal().Err(err).Msg("Voice parameter tables incomplete")
	}

	chain := tts.NewChain(logger, mapper, cfg.TTS.AttemptTimeout, engines...)

	core := engine.New(logger, engine.Config{
		Analyzer:       cfg.Emotion.Engine,
		Synthesizer:    cfg.TTS.Engine,
		Fallbacks:      cfg.TTS.Fallbacks,
		MaxTextLength:  cfg.Server.MaxTextLength,
		AttemptTimeout: cfg.TTS.AttemptTimeout,
	}, ensemble, chain)

	watcher, err := config.WatchCredentials(logger, cfg.GoogleCloud.CredentialsPath, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("Could not watch credentials file")
	}
	defer watcher.Close()

	status := core.Status()
	logger.Info().
		Str("analyzer", cfg.Emotion.Engine).
		Str("engine", cfg.TTS.Engine).
		Strs("fallbacks", cfg.TTS.Fallbacks).
		Interface("analyzers", status.Analyzers).
		Interface("synthesizers", status.Synthesizers).
		Msg("Empathy Engine starting")

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpapi.NewServer(logger, core, logs),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("Listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Shutdown error")
	}
}
