package main

import (
	"clipbot/bot"
	"clipbot/config"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	root := &cobra.Command{
		Use:          "clipbot",
		Short:        "Moderation-gated clip relay bot for Discord",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(debug)
			cfg, err := config.Load(configPath)
			if err != nil {
				logger.Error("failed to load config", slog.Any("err", err))
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return bot.Run(ctx, cfg, logger)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "config file or directory containing config.yaml")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(&cobra.Command{
		Use:   "sync-commands",
		Short: "Register slash commands for the configured guilds and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(debug)
			cfg, err := config.Load(configPath)
			if err != nil {
				logger.Error("failed to load config", slog.Any("err", err))
				return err
			}
			return bot.SyncCommands(cmd.Context(), cfg, logger)
		},
	})
	root.SetContext(context.Background())
	return root
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
