package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

// Logger is a thin wrapper around zap.Logger.
// Named child loggers share the parent core.
type Logger struct {
	l     *zap.Logger
	level zap.AtomicLevel
}

type Field = zap.Field

// field helpers, so callers don't need to import zap
var (
	ErrorField = zap.Error
	Float64    = zap.Float64
	Int        = zap.Int
	String     = zap.String
)

var defaultLogger *Logger

func init() {
	defaultLogger = DevLogger()
}

type Config struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`  // json or text
	Filters    string `yaml:"filters"` // zapfilter rules, empty means no filtering
	WithCaller bool   `yaml:"withCaller"`
}

// New creates a Logger according to cfg and installs it as the default.
func New(cfg *Config) (*Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	var encoder zapcore.Encoder
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	switch cfg.Format {
	case "", "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	case "text":
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	if cfg.Filters != "" {
		rules, err := zapfilter.ParseRules(cfg.Filters)
		if err != nil {
			return nil, fmt.Errorf("invalid log filter rules: %w", err)
		}
		core = zapfilter.NewFilteringCore(core, rules)
	}
	zapOpts := []zap.Option{}
	if cfg.WithCaller {
		zapOpts = append(zapOpts, zap.AddCaller())
	}
	ret := &Logger{l: zap.New(core, zapOpts...), level: level}
	defaultLogger = ret
	return ret, nil
}

// DevLogger returns a console logger on debug level (used until New is called).
func DevLogger() *Logger {
	level := zap.NewAtomicLevelAt(zap.DebugLevel)
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level)
	return &Logger{l: zap.New(core), level: level}
}

func Default() *Logger {
	return defaultLogger
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.l.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.l.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.l.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.l.Error(msg, fields...)
}

func (l *Logger) Fatal(msg string, fields ...Field) {
	l.l.Fatal(msg, fields...)
}

func (l *Logger) Sugar() *zap.SugaredLogger {
	return l.l.Sugar()
}

// package level functions log via the default logger

func Debug(msg string, fields ...Field) { defaultLogger.Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { defaultLogger.Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { defaultLogger.Warn(msg, fields...) }
func Error(msg string, fields ...Field) { defaultLogger.Error(msg, fields...) }
func Fatal(msg string, fields ...Field) { defaultLogger.Fatal(msg, fields...) }
