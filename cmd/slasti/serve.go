package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/slasti/internal/app"
	"github.com/MrSnakeDoc/slasti/internal/config"
	"github.com/MrSnakeDoc/slasti/internal/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve every store listed in SLASTI_USERS_FILE over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = loggerClient.Sync() }()

			a, err := app.New(cmd.Context(), cfg, loggerClient)
			if err != nil {
				loggerClient.Error("startup failed", logger.Error(err))
				return err
			}
			return a.Run()
		},
	}
}
