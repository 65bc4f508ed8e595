package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Liyulingyue/PaddleLabel/internal/auth"
	"github.com/Liyulingyue/PaddleLabel/internal/config"
	"github.com/Liyulingyue/PaddleLabel/internal/database"
	"github.com/Liyulingyue/PaddleLabel/internal/jobs"
	"github.com/Liyulingyue/PaddleLabel/internal/logger"
	"github.com/Liyulingyue/PaddleLabel/internal/metrics"
	"github.com/Liyulingyue/PaddleLabel/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// rootCommand creates the CLI: the HTTP server plus one-shot import and export.
func rootCommand() *cobra.Command {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:           "server",
		Short:         "PaddleLabel annotation backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			cfg = c
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	rootCmd.AddCommand(
		serveCommand(func() *config.Config { return cfg }),
		importCommand(),
		exportCommand(),
	)
	return rootCmd
}

// setup loads configuration and brings up logging, the database, auth and the run tracker.
func setup(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	if err := database.InitDB(database.Options{
		Driver:   cfg.DBDriver,
		DSN:      cfg.DatabaseDSN,
		LogLevel: cfg.LogLevel,
	}); err != nil {
		return nil, err
	}

	auth.Configure(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	jobs.SetDefault(jobs.NewTracker(cfg.RunStatusTTL, metrics.Default()))

	if err := bootstrapAdmin(ctx, cfg); err != nil {
		return nil, err
	}
	log.Debug("setup complete", zap.String("env", cfg.AppEnv), zap.String("home", cfg.HomeDir))
	return cfg, nil
}

// bootstrapAdmin creates or updates the admin account when a password is configured.
func bootstrapAdmin(ctx context.Context, cfg *config.Config) error {
	if cfg.AdminPassword == "" {
		logger.L().Warn("ADMIN_PASSWORD not set, admin login disabled until a password is configured")
		return nil
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if _, err := store.New(database.GetDB()).UpsertUser(ctx, cfg.AdminUsername, hash); err != nil {
		return fmt.Errorf("bootstrap admin user: %w", err)
	}
	logger.L().Info("admin user ready", zap.String("username", cfg.AdminUsername))
	return nil
}
