package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"groundwork/internal/constants"
)

// fileLogger returns a logger writing only to a temp data dir, plus a reader
// for today's log file.
func fileLogger(t *testing.T, level string) (*Logger, func() string) {
	t.Helper()
	dir := t.TempDir()
	l := NewWithOptions(Options{Level: level, DataDir: dir, WriteToStdout: false})
	t.Cleanup(func() { l.Close() })

	read := func() string {
		name := time.Now().UTC().Format("2006-01-02") + constants.LogFileExtension
		data, err := os.ReadFile(filepath.Join(dir, constants.LogsDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				return ""
			}
			t.Fatalf("failed to read log file: %v", err)
		}
		return string(data)
	}
	return l, read
}

func TestLevelFiltering(t *testing.T) {
	l, read := fileLogger(t, "warn")

	l.Debug("debug line")
	l.Info("info line")
	l.Warn("warn line")
	l.Error("error line")

	out := read()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Error("lines below the configured level must be dropped")
	}
	if !strings.Contains(out, "warn line") || !strings.Contains(out, "error line") {
		t.Errorf("expected warn and error lines, got:\n%s", out)
	}
}

func TestLineFormat(t *testing.T) {
	l, read := fileLogger(t, "info")

	l.Info("hello %s %d", "world", 42)

	out := read()
	if !strings.Contains(out, "[INFO] hello world 42") {
		t.Errorf("unexpected line format:\n%s", out)
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	l, read := fileLogger(t, "verbose")

	l.Debug("debug line")
	l.Info("info line")

	out := read()
	if strings.Contains(out, "debug line") {
		t.Error("unknown level should fall back to INFO, which drops debug")
	}
	if !strings.Contains(out, "info line") {
		t.Error("expected info line under fallback level")
	}
}

func TestSetLevel(t *testing.T) {
	l, read := fileLogger(t, "error")

	l.Info("before")
	l.SetLevel("debug")
	l.Info("after")

	out := read()
	if strings.Contains(out, "before") {
		t.Error("info must be dropped at error level")
	}
	if !strings.Contains(out, "after") {
		t.Error("expected info line after lowering the level")
	}
}

func TestDailyFileCreated(t *testing.T) {
	dir := t.TempDir()
	l := NewWithOptions(Options{Level: "info", DataDir: dir, WriteToStdout: false})
	defer l.Close()

	l.Info("first line")

	name := time.Now().UTC().Format("2006-01-02") + constants.LogFileExtension
	if _, err := os.Stat(filepath.Join(dir, constants.LogsDir, name)); err != nil {
		t.Fatalf("expected daily log file %s: %v", name, err)
	}
}

func TestStdoutOnlyWritesNoFile(t *testing.T) {
	dir := t.TempDir()
	l := New("error")
	l.Error("stdout only")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Error("stdout-only logger must not create files")
	}
}
