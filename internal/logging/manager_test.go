// pattern: Imperative Shell

package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestManager(t *testing.T, level string, console *bytes.Buffer) (*Manager, string) {
	t.Helper()
	logFile := filepath.Join(t.TempDir(), "logs", "rigit.log")
	cfg := Config{FilePath: logFile, Level: level}
	if console != nil {
		cfg.Console = console
	}
	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr, logFile
}

func TestNewManager_RequiresFilePath(t *testing.T) {
	if _, err := NewManager(Config{}); err == nil {
		t.Fatal("NewManager() with empty FilePath should fail")
	}
}

func TestManager_For(t *testing.T) {
	mgr, _ := newTestManager(t, "debug", nil)

	logger := mgr.For("tmux")
	if logger == nil {
		t.Fatal("For() returned nil")
	}
	if logger.Scope() != "tmux" {
		t.Errorf("Scope() = %q, want tmux", logger.Scope())
	}
	if mgr.For("tmux") != logger {
		t.Error("For() should return cached logger for same scope")
	}
	if mgr.For("discovery") == logger {
		t.Error("For() should return different logger for different scope")
	}
}

func TestManager_LoggingToFile(t *testing.T) {
	mgr, logFile := newTestManager(t, "info", nil)

	mgr.For("sessionizer").Info("session opened", "name", "proj", "windows", 2)
	_ = mgr.Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)
	for _, want := range []string{`"msg":"session opened"`, `"logger":"sessionizer"`, `"name":"proj"`, `"windows":2`} {
		if !strings.Contains(content, want) {
			t.Errorf("log file missing %s: %s", want, content)
		}
	}
}

func TestManager_LevelFilters(t *testing.T) {
	mgr, logFile := newTestManager(t, "warn", nil)

	logger := mgr.For("app")
	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("visible warning")
	_ = mgr.Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Errorf("entries below warn were written: %s", data)
	}
	if !strings.Contains(string(data), "visible warning") {
		t.Errorf("warn entry missing: %s", data)
	}
}

func TestManager_ConsoleMirror(t *testing.T) {
	var console bytes.Buffer
	mgr, _ := newTestManager(t, "debug", &console)

	mgr.For("selector").Debug("spawning selector", "cmd", "fzf")
	_ = mgr.Sync()

	out := console.String()
	if !strings.Contains(out, "spawning selector") || !strings.Contains(out, "selector") {
		t.Errorf("console output = %q", out)
	}
}

func TestScopedLogger_WithAndGroups(t *testing.T) {
	lm := NewTestLogManager(10)

	logger := lm.For("tmux").With("session", "proj")
	logger.Error("command failed", "err", errors.New("exit status 1"))

	entry, ok := lm.Find("tmux", "command failed")
	if !ok {
		t.Fatal("no entry recorded")
	}
	if entry.Fields["session"] != "proj" {
		t.Errorf("Fields[session] = %v, want proj", entry.Fields["session"])
	}
	if entry.Fields["err"] != "exit status 1" {
		t.Errorf("Fields[err] = %v, want exit status 1", entry.Fields["err"])
	}
	if entry.Level != "ERROR" {
		t.Errorf("Level = %q, want ERROR", entry.Level)
	}
}

func TestParseZapLevel(t *testing.T) {
	if got := parseZapLevel("bogus").String(); got != "info" {
		t.Errorf("parseZapLevel(bogus) = %s, want info", got)
	}
	if got := parseZapLevel("debug").String(); got != "debug" {
		t.Errorf("parseZapLevel(debug) = %s, want debug", got)
	}
}
