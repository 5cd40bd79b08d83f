package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"
	"tracksmartin/internal/lyrics"
	"tracksmartin/internal/services"
	"tracksmartin/internal/shared"
	"tracksmartin/internal/tags"
)

func main() {
	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	logger, err := shared.NewDailyLogger(config.Output.LogDir)
	if err != nil {
		logger = shared.NewLogger(nil)
		logger.Warnf("file logging disabled: %v", err)
	}

	var suno *services.SunoService
	if svc, err := services.NewSunoService(config.Credentials.SunoAPIKey, config.API.BaseURL, nil); err == nil {
		suno = svc
	}

	var generator *lyrics.Generator
	if svc, err := services.NewLyricsService(config.Credentials.OpenAIAPIKey, ""); err == nil {
		generator = lyrics.NewGenerator(svc)
	}

	index, err := tags.Default()
	if err != nil {
		logger.Fatalf("failed to load tag corpus: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Suno:   suno,
		Lyrics: generator,
		Index:  index,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "tracksmartin",
		Usage:    "Generate and manage AI music from the command line",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
