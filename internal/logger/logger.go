package logger

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/samvad-hq/giftery-client/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Package-level logger to be used across packages after Init.
var S *zap.SugaredLogger

// rotating is the log file opened by Init, if any.
var rotating *lumberjack.Logger

// Logger is the structured logging surface passed to components.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// Init initializes a zap SugaredLogger using settings from config.
// When cfg.LogFile is set, records go to a size-rotated file instead of stderr.
func Init(cfg *config.Config) (Logger, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if rotating != nil {
		_ = rotating.Close()
		rotating = nil
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(output(cfg)),
		ParseLevel(cfg.LogLevel),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	S = logger.Sugar()
	return &ZapLogger{log: logger}, nil
}

// ParseLevel maps a config level name to a zap level, defaulting to info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func output(cfg *config.Config) io.Writer {
	if cfg == nil || strings.TrimSpace(cfg.LogFile) == "" {
		return zapcore.Lock(os.Stderr)
	}
	rotating = &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	return rotating
}

// Close flushes buffered entries and releases the log file.
func Close() error {
	var errs []error
	if S != nil {
		if err := S.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	if rotating != nil {
		if err := rotating.Close(); err != nil {
			errs = append(errs, err)
		}
		rotating = nil
	}
	return errors.Join(errs...)
}

// ZapLogger adapts a zap.Logger to Logger, logging each object as a
// structured field named key.
type ZapLogger struct {
	log *zap.Logger
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(log *zap.Logger) *ZapLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapLogger{log: log}
}

func (z *ZapLogger) InfoObj(msg, key string, obj interface{})  { z.log.Info(msg, zap.Any(key, obj)) }
func (z *ZapLogger) DebugObj(msg, key string, obj interface{}) { z.log.Debug(msg, zap.Any(key, obj)) }
func (z *ZapLogger) WarnObj(msg, key string, obj interface{})  { z.log.Warn(msg, zap.Any(key, obj)) }
func (z *ZapLogger) ErrorObj(msg, key string, obj interface{}) { z.log.Error(msg, zap.Any(key, obj)) }

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) InfoObj(string, string, interface{})  {}
func (NopLogger) DebugObj(string, string, interface{}) {}
func (NopLogger) WarnObj(string, string, interface{})  {}
func (NopLogger) ErrorObj(string, string, interface{}) {}

// Minimal object logging helpers -------------------------------------------------
// These log through the package-level logger and are no-ops before Init.
func InfoObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Info(msg, zap.Any(key, obj))
}

func DebugObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Debug(msg, zap.Any(key, obj))
}

func WarnObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Warn(msg, zap.Any(key, obj))
}

func ErrorObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Error(msg, zap.Any(key, obj))
}
