package database

import (
	"context"
	"fmt"
	"time"

	"go-parts-inventory/internal/config"
	"go-parts-inventory/internal/logger"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectDB opens the pool, retrying with exponential backoff until
// cfg.ConnectTimeout elapses. Postgres usually comes up after the API in
// compose setups.
func ConnectDB(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.LogQueries {
		logLevel = gormlogger.Info
	}
	newLogger := gormlogger.New(
		logger.StdLog(),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = cfg.ConnectTimeout
	if b.MaxElapsedTime <= 0 {
		b.MaxElapsedTime = 30 * time.Second
	}

	var db *gorm.DB
	operation := func() error {
		var err error
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // Disables implicit prepared statements for pgbouncer transaction mode
		}), &gorm.Config{
			Logger:         newLogger,
			PrepareStmt:    false,
			TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
		})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return backoff.Permanent(err)
		}
		return sqlDB.PingContext(ctx)
	}
	notify := func(err error, wait time.Duration) {
		logger.WarnCtx(ctx, "Database not reachable, retrying",
			zap.Error(err),
			zap.Duration("retry_in", wait),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	logger.InfoCtx(ctx, "Database connection established")
	return db, nil
}
