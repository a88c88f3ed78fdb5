// Package logging builds the application's zap logger from LogConfig.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-ioc/framework/config"
)

// Logger is the contract the logger is registered under.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	Named(name string) Logger
	// Zap returns the underlying logger, e.g. for container.WithLogger.
	Zap() *zap.Logger
	Sync() error
}

// logger implements Logger using zap
type logger struct {
	base *zap.Logger
	// skip is base with one extra caller frame for the wrapper methods.
	skip *zap.Logger
}

// New builds a logger from cfg. JSON format, or the production environment,
// selects zap's production encoder; anything else gets a console encoder.
func New(cfg config.LogConfig, env string) (Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = l
	}

	if env == "production" || cfg.Format == "json" {
		zapConfig := zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(level)
		z, err := zapConfig.Build()
		if err != nil {
			return nil, fmt.Errorf("logging: build production logger: %w", err)
		}
		return FromZap(z), nil
	}

	return FromZap(newConsole(level)), nil
}

func newConsole(level zapcore.Level) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core, zap.AddCaller())
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &logger{base: z, skip: z.WithOptions(zap.AddCallerSkip(1))}
}

// NewNop returns a logger that discards everything.
func NewNop() Logger { return FromZap(zap.NewNop()) }

func (l *logger) Debug(msg string, fields ...zap.Field) { l.skip.Debug(msg, fields...) }
func (l *logger) Info(msg string, fields ...zap.Field)  { l.skip.Info(msg, fields...) }
func (l *logger) Warn(msg string, fields ...zap.Field)  { l.skip.Warn(msg, fields...) }
func (l *logger) Error(msg string, fields ...zap.Field) { l.skip.Error(msg, fields...) }

func (l *logger) With(fields ...zap.Field) Logger { return FromZap(l.base.With(fields...)) }
func (l *logger) Named(name string) Logger        { return FromZap(l.base.Named(name)) }

func (l *logger) Zap() *zap.Logger { return l.base }

func (l *logger) Sync() error { return l.base.Sync() }
