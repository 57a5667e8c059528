package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rigit/internal/cli"
)

func TestLogManagerInitialization(t *testing.T) {
	tmpDir := t.TempDir()

	lm, err := newLogManager(tmpDir, "debug", false, nil)
	if err != nil {
		t.Fatalf("failed to create LogManager: %v", err)
	}
	defer lm.Close()

	lm.For("app").Info("test message")
	lm.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "rigit.log")); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
}

func TestLogManagerVerboseMirrorsToStderr(t *testing.T) {
	stderr := &bytes.Buffer{}

	lm, err := newLogManager(t.TempDir(), "info", true, stderr)
	if err != nil {
		t.Fatalf("failed to create LogManager: %v", err)
	}
	defer lm.Close()

	lm.For("app").Debug("verbose message")
	lm.Sync()

	if !strings.Contains(stderr.String(), "verbose message") {
		t.Errorf("stderr = %q, want the debug message", stderr.String())
	}
}

func TestResolveConfigDir(t *testing.T) {
	if got := resolveConfigDir("/explicit"); got != "/explicit" {
		t.Errorf("resolveConfigDir(/explicit) = %q", got)
	}

	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := resolveConfigDir(""); got != filepath.Join("/xdg", "rigit") {
		t.Errorf("resolveConfigDir(\"\") = %q", got)
	}
}

func TestRun_Version(t *testing.T) {
	stderr := &bytes.Buffer{}
	dir := t.TempDir()

	if code := run([]string{"--config-dir", dir, "version"}, stderr); code != cli.ExitOK {
		t.Errorf("run(version) = %d, stderr = %s", code, stderr.String())
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	stderr := &bytes.Buffer{}

	if code := run([]string{"--no-such-flag"}, stderr); code != cli.ExitUsage {
		t.Errorf("run(--no-such-flag) = %d, want %d", code, cli.ExitUsage)
	}
}

func TestRun_HelpFlag(t *testing.T) {
	stderr := &bytes.Buffer{}

	if code := run([]string{"--help"}, stderr); code != cli.ExitOK {
		t.Errorf("run(--help) = %d, want %d", code, cli.ExitOK)
	}
	if !strings.Contains(stderr.String(), "Usage: rigit") {
		t.Errorf("stderr = %q, want usage", stderr.String())
	}
}

func TestRun_NoPathsIsFatal(t *testing.T) {
	stderr := &bytes.Buffer{}
	t.Setenv("SESSIONIZER_PATHS", "")

	code := run([]string{"--config-dir", t.TempDir(), "list"}, stderr)
	if code != cli.ExitError {
		t.Errorf("run(list) = %d, want %d", code, cli.ExitError)
	}
	if !strings.Contains(stderr.String(), "no root paths configured") {
		t.Errorf("stderr = %q", stderr.String())
	}
}
