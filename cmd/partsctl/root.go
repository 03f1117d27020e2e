package main

import (
	"context"
	"fmt"
	"time"

	"go-parts-inventory/internal/config"
	"go-parts-inventory/internal/logger"
	"go-parts-inventory/internal/repository"
	"go-parts-inventory/internal/service"
	"go-parts-inventory/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// app holds what every subcommand needs once config and database are up.
type app struct {
	cfg   *config.Config
	db    *gorm.DB
	users service.UserService
	chain service.ChainService
}

func newRootCmd() *cobra.Command {
	var configFile, envPath string

	rootCmd := &cobra.Command{
		Use:           "partsctl",
		Short:         "Parts inventory maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "Path to .env file")

	setup := func(ctx context.Context) (*app, func(), error) {
		cfg, err := config.Load(configFile, envPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
		if err := logger.Initialize(logger.Config{Debug: cfg.Debug, SentryDSN: cfg.SentryDSN}); err != nil {
			return nil, nil, fmt.Errorf("initialize logger: %w", err)
		}
		db, err := database.ConnectDB(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}

		recordRepo := repository.NewPartRecordRepo(db)
		a := &app{
			cfg:   cfg,
			db:    db,
			users: service.NewUserService(repository.NewUserRepo(db)),
			chain: service.NewChainService(recordRepo, repository.NewTransactor(db)),
		}
		cleanup := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
			logger.Flush(2 * time.Second)
		}
		return a, cleanup, nil
	}

	rootCmd.AddCommand(
		newMigrateCmd(setup),
		newSeedAdminCmd(setup),
		newResetPasswordCmd(setup),
		newHistoryCmd(setup),
		newRepairChainCmd(setup),
	)
	return rootCmd
}

type setupFunc func(ctx context.Context) (*app, func(), error)
