package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	tapecli "github.com/tapetrack/tapectl/internal/client/cli"
	"github.com/tapetrack/tapectl/internal/client/config"
	"github.com/tapetrack/tapectl/internal/logging"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if v := cmd.String("api-url"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := cmd.String("db"); v != "" {
		cfg.Database.Path = v
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logging.NewText(cfg.Log.Level)

	app, err := tapecli.NewApp(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initializing client: %w", err)
	}
	return app.Run(ctx)
}

func main() {
	cmd := &cli.Command{
		Name:   "tapectl",
		Usage:  "Interactive client for the TapeTrack tape-out workflow tracker",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("TAPECTL_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Backend base URL (overrides config)",
				Sources: cli.EnvVars("TAPECTL_API_URL"),
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Path to the local token store (overrides config)",
				Sources: cli.EnvVars("TAPECTL_DB_PATH"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
