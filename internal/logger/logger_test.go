package logger

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
)

func captureLogger(level string) (*implLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	lv, ok := levels[level]
	if !ok {
		lv = 1
	}
	return &implLogger{logger: log.New(&buf, "", 0), level: lv}, &buf
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	l, buf := captureLogger("warn")
	ctx := context.Background()

	l.Debug(ctx, "d")
	l.Info(ctx, "i")
	l.Warn(ctx, "w %d", 1)
	l.Error(ctx, "e")

	out := buf.String()
	if strings.Contains(out, "[DEBUG]") || strings.Contains(out, "[INFO]") {
		t.Fatalf("low levels not filtered: %q", out)
	}
	if !strings.Contains(out, "[WARN] w 1") || !strings.Contains(out, "[ERROR] e") {
		t.Fatalf("missing expected lines: %q", out)
	}
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	t.Parallel()

	l, buf := captureLogger("chatty")
	l.Debug(context.Background(), "d")
	l.Info(context.Background(), "i")

	out := buf.String()
	if strings.Contains(out, "[DEBUG]") {
		t.Fatalf("debug should be filtered at the default level: %q", out)
	}
	if !strings.Contains(out, "[INFO] i") {
		t.Fatalf("info line missing: %q", out)
	}
}

func TestNopDiscards(t *testing.T) {
	t.Parallel()

	// Must not panic and must not write anywhere visible.
	l := Nop()
	l.Error(context.Background(), "ignored %s", "arg")
}
