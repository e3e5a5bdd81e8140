package logs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level string

const (
	DEBUG Level = "DEBUG"
	INFO  Level = "INFO"
	WARN  Level = "WARN"
	ERROR Level = "ERROR"
)

// zapLevel maps a Level onto zap. Unknown levels fall back to INFO.
func (l Level) zapLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(string(l)))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Config defines the configuration for logging.
type Config struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	Path       string `yaml:"path"`        // empty: stderr only
	MaxSize    int    `yaml:"max_size"`    // megabytes before rotation
	MaxBackups int    `yaml:"max_backups"` // rotated files kept
	MaxAge     int    `yaml:"max_age"`     // days
	Compress   bool   `yaml:"compress"`
	RingSize   int    `yaml:"ring_size"` // recent entries kept in memory
}

// DefaultConfig logs info and above to stderr and keeps 200 recent entries.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		RingSize:   200,
	}
}

// Logger is a zap SugaredLogger that also records recent entries in a ring.
type Logger struct {
	*zap.SugaredLogger
	ring *Ring
}

// New builds a logger writing to stderr, or to a rotated file when Path is set.
func New(cfg Config) (*Logger, error) {
	writeSyncer := zapcore.Lock(os.Stderr)

	if cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		writeSyncer = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	level := Level(cfg.Level).zapLevel()
	ringSize := cfg.RingSize
	if ringSize <= 0 {
		ringSize = DefaultConfig().RingSize
	}
	ring := NewRing(ringSize)

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, writeSyncer, level),
		newRingCore(ring, level),
	)

	return &Logger{
		SugaredLogger: zap.New(core, zap.AddCaller()).Sugar(),
		ring:          ring,
	}, nil
}

// NewLogger returns a memory-only logger.
//
// level: minimum log level to record (e.g. INFO, WARN, ERROR, DEBUG)
//
// maxSize: maximum number of log entries kept in memory
func NewLogger(maxSize int, level Level) *Logger {
	ring := NewRing(maxSize)
	return &Logger{
		SugaredLogger: zap.New(newRingCore(ring, level.zapLevel())).Sugar(),
		ring:          ring,
	}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{
		SugaredLogger: zap.NewNop().Sugar(),
		ring:          NewRing(0),
	}
}

// GetLast returns up to n of the most recent entries, oldest first.
func (l *Logger) GetLast(n int) []Entry {
	return l.ring.GetLast(n)
}

// Named returns a child logger sharing the same ring.
func (l *Logger) Named(name string) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.Named(name), ring: l.ring}
}

type contextKey string

const loggerKey = contextKey("logger")

// WithContext adds logger to context.
func WithContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*Logger); ok {
			return l
		}
	}
	return NewNop()
}
