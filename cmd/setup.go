package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"tracksmartin/internal/shared"
)

// SetupConfig writes a starter config.toml for the user to fill in.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	r.writePlainln("✓ Created %s", path)
	r.writePlain("Fill in suno_api_key (and optionally openai_api_key), or set\n")
	r.writePlain("SUNO_API_KEY / OPENAI_KEY in the environment or a .env file.\n")
	return nil
}

// SetupCheck reports which credentials and settings are active.
func (r *Runner) SetupCheck(ctx context.Context, cmd *cli.Command) error {
	r.writePlainHeader("Configuration")

	if r.config.Credentials.SunoAPIKey != "" {
		r.writePlain("✓ Suno API key configured\n")
	} else {
		r.writePlain("✗ Suno API key missing (generation disabled)\n")
	}
	if r.config.Credentials.OpenAIAPIKey != "" {
		r.writePlain("✓ OpenAI API key configured\n")
	} else {
		r.writePlain("✗ OpenAI API key missing (auto-lyrics disabled)\n")
	}

	r.writePlain("\nAPI base URL: %s\n", r.config.API.BaseURL)
	r.writePlain("Poll: %d attempts, %ds interval\n", r.config.Poll.MaxAttempts, r.config.Poll.IntervalSeconds)
	r.writePlain("Downloads: %d workers, %.1f req/s\n", r.config.Download.Workers, r.config.Download.RateLimit)
	if r.index != nil {
		r.writePlain("Tag corpus: %d entries\n", r.index.Len())
	}
	return nil
}

// setupCommand handles setup and configuration operations
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a starter config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "check",
				Usage:  "Show the active configuration",
				Action: r.SetupCheck,
			},
		},
	}
}
