package logger

import (
	"context"
	"log"
	"os"
	"strings"
)

// Logger is the leveled logger handed to the pipeline and its stages.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
}

type implLogger struct {
	logger *log.Logger
	level  int
}

var levels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

// New creates a Logger that writes to stdout. Unknown levels default to info.
func New(level string) Logger {
	lv, ok := levels[strings.ToLower(level)]
	if !ok {
		lv = 1
	}
	return &implLogger{
		logger: log.New(os.Stdout, "", log.LstdFlags),
		level:  lv,
	}
}

func (l *implLogger) logf(lv int, tag, msg string, args ...any) {
	if lv < l.level {
		return
	}
	l.logger.Printf(tag+" "+msg, args...)
}

func (l *implLogger) Debug(_ context.Context, msg string, args ...any) {
	l.logf(0, "[DEBUG]", msg, args...)
}

func (l *implLogger) Info(_ context.Context, msg string, args ...any) {
	l.logf(1, "[INFO]", msg, args...)
}

func (l *implLogger) Warn(_ context.Context, msg string, args ...any) {
	l.logf(2, "[WARN]", msg, args...)
}

func (l *implLogger) Error(_ context.Context, msg string, args ...any) {
	l.logf(3, "[ERROR]", msg, args...)
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() Logger {
	return &implLogger{logger: log.New(discard{}, "", 0), level: 4}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
