package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/slasti/internal/app"
	"github.com/MrSnakeDoc/slasti/internal/logger"
	"github.com/MrSnakeDoc/slasti/internal/store/flatfile"
)

// addRootFlag registers the --root flag shared by the store commands.
func addRootFlag(cmd *cobra.Command) {
	cmd.Flags().String("root", "", "store directory (holds marks/ and tags/)")
	_ = cmd.MarkFlagRequired("root")
}

// openStore opens the store named by --root with a console logger.
func openStore(cmd *cobra.Command) (*flatfile.Store, logger.Logger, error) {
	root, _ := cmd.Flags().GetString("root")
	level, _ := cmd.Flags().GetString("log-level")
	loggerClient := logger.New(level, true)

	s, err := app.OpenStore(root, flatfile.Options{Logger: loggerClient})
	if err != nil {
		return nil, nil, err
	}
	return s, loggerClient, nil
}
