package pkg

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLogLevel(t *testing.T) {
	orig := GetLogLevel()
	defer SetLogLevel(orig)

	SetLogLevel(slog.LevelDebug)
	if got := GetLogLevel(); got != slog.LevelDebug {
		t.Errorf("GetLogLevel() = %v, want %v", got, slog.LevelDebug)
	}

	SetLogLevel(slog.LevelError)
	if got := GetLogLevel(); got != slog.LevelError {
		t.Errorf("GetLogLevel() = %v, want %v", got, slog.LevelError)
	}
}

func TestLogComponentTag(t *testing.T) {
	origLogger := DefaultLogger
	origLevel := GetLogLevel()
	defer func() {
		SetLogger(origLogger)
		SetLogLevel(origLevel)
	}()

	var buf bytes.Buffer
	SetLogLevel(slog.LevelDebug)
	SetLogger(NewLogger(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	LogInfo(ComponentDriver, "chip identified", "jedec", "C84015")

	out := buf.String()
	if !strings.Contains(out, "component=driver") {
		t.Errorf("log output missing component tag: %q", out)
	}
	if !strings.Contains(out, "chip identified") {
		t.Errorf("log output missing message: %q", out)
	}
	if !strings.Contains(out, "jedec=C84015") {
		t.Errorf("log output missing attribute: %q", out)
	}
}

func TestLogLevelFiltering(t *testing.T) {
	origLogger := DefaultLogger
	origLevel := GetLogLevel()
	defer func() {
		SetLogger(origLogger)
		SetLogLevel(origLevel)
	}()

	var buf bytes.Buffer
	SetLogger(NewLogger(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	LogDebug(ComponentHAL, "suppressed")
	LogWarn(ComponentHAL, "visible")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("debug message not filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn message missing: %q", out)
	}
}
