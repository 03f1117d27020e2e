// Package logger wraps a global zap logger. When a Sentry DSN is configured
// every error level entry is also reported to Sentry, which is how
// operators get notified of failed inventory writes.
package logger

import (
	"context"
	"log"
	"time"

	"github.com/TheZeroSlave/zapsentry"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// global is the process wide logger. It is a no-op until Initialize runs.
	global = zap.NewNop()
	// sentryClient is set when error reporting is enabled
	sentryClient *sentry.Client
)

// Config holds logger configuration
type Config struct {
	Debug        bool
	SentryDSN    string
	SentryClient *sentry.Client
	Tags         map[string]string
}

// Initialize builds the global logger
func Initialize(cfg Config) error {
	var zapConfig zap.Config
	if cfg.Debug {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return err
	}

	if cfg.SentryDSN == "" && cfg.SentryClient == nil {
		global = baseLogger
		return nil
	}

	sentryClient = cfg.SentryClient
	if sentryClient == nil {
		sentryClient, err = sentry.NewClient(sentry.ClientOptions{
			Dsn:   cfg.SentryDSN,
			Debug: cfg.Debug,
		})
		if err != nil {
			return err
		}
	}

	core, err := zapsentry.NewCore(zapsentry.Configuration{
		Level:             zapcore.ErrorLevel,
		EnableBreadcrumbs: true,
		BreadcrumbLevel:   zapcore.InfoLevel,
		Tags:              cfg.Tags,
	}, zapsentry.NewSentryClientFromClient(sentryClient))
	if err != nil {
		return err
	}

	global = zapsentry.AttachCoreToLogger(core, baseLogger)
	return nil
}

// Set replaces the global logger. Tests use it with zaptest/observer.
func Set(l *zap.Logger) {
	global = l
}

// Flush flushes buffered log entries and sentry events
func Flush(timeout time.Duration) {
	_ = global.Sync()
	if sentryClient != nil {
		sentryClient.Flush(timeout)
	}
}

// FromContext returns a logger carrying the sentry scope of ctx
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return global
	}
	return global.With(zapsentry.Context(ctx))
}

// Default returns the global logger
func Default() *zap.Logger {
	return global
}

// StdLog adapts the global logger for libraries that want a *log.Logger
func StdLog() *log.Logger {
	return zap.NewStdLog(global)
}

func Info(msg string, fields ...zap.Field) {
	global.Info(msg, fields...)
}

func InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	global.Warn(msg, fields...)
}

func WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Warn(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	global.Debug(msg, fields...)
}

// Error logs err at error level, which also reports it to sentry
func Error(err error, fields ...zap.Field) {
	if err != nil {
		global.Error(err.Error(), fields...)
	} else {
		global.Error("error occurred", fields...)
	}
}

// ErrorCtx logs err with the sentry scope of ctx
func ErrorCtx(ctx context.Context, err error, fields ...zap.Field) {
	if err != nil {
		FromContext(ctx).Error(err.Error(), fields...)
	} else {
		FromContext(ctx).Error("error occurred", fields...)
	}
}

func Fatal(msg string, fields ...zap.Field) {
	global.Fatal(msg, fields...)
}
