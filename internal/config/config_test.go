package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func envMap(vars map[string]string) LookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(Path(dir), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return dir
}

func TestLoadFullConfig(t *testing.T) {
	dir := writeConfig(t, `
default_session: Home
paths:
  - ~/code
  - /srv/work
editor: hx
editor_window: Helix
shell_window: Zsh
selector: builtin
fzf_args: ["--height=40%", "--reverse"]
theme: latte
log_level: debug
`)

	cfg, err := LoadFrom(Path(dir))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	want := Config{
		DefaultSession: "Home",
		Paths:          []string{"~/code", "/srv/work"},
		Editor:         "hx",
		EditorWindow:   "Helix",
		ShellWindow:    "Zsh",
		Selector:       "builtin",
		FzfArgs:        []string{"--height=40%", "--reverse"},
		Theme:          "latte",
		LogLevel:       "debug",
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("LoadFrom() =\n%+v\nwant\n%+v", cfg, want)
	}
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("LoadFrom() = %+v, want defaults", cfg)
	}
}

func TestLoadFrom_EmptyValuesUseDefaults(t *testing.T) {
	dir := writeConfig(t, "default_session: \"\"\ntheme: \"\"\nlog_level: \"\"\n")

	cfg, err := LoadFrom(Path(dir))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.DefaultSession != "Default" {
		t.Errorf("DefaultSession = %q, want Default", cfg.DefaultSession)
	}
	if cfg.Theme != "mocha" {
		t.Errorf("Theme = %q, want mocha", cfg.Theme)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadFrom_EmptyEditorDisablesEditor(t *testing.T) {
	dir := writeConfig(t, "editor: \"\"\n")

	cfg, err := LoadFrom(Path(dir))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Editor != "" {
		t.Errorf("Editor = %q, want empty", cfg.Editor)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := writeConfig(t, "paths: [unterminated\n")

	cfg, err := LoadFrom(Path(dir))
	if err == nil {
		t.Fatal("LoadFrom() expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), Path(dir)) {
		t.Errorf("error %q does not name the file", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("LoadFrom() = %+v, want defaults on error", cfg)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultSession != "Default" {
		t.Errorf("DefaultSession = %q", cfg.DefaultSession)
	}
	if cfg.Editor != "nvim" || cfg.EditorWindow != "Neovim" || cfg.ShellWindow != "Bash" {
		t.Errorf("editor settings = %q %q %q", cfg.Editor, cfg.EditorWindow, cfg.ShellWindow)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if len(cfg.Paths) != 0 {
		t.Errorf("Paths = %v, want none", cfg.Paths)
	}
}

func TestApplyEnv(t *testing.T) {
	sep := string(os.PathListSeparator)

	tests := []struct {
		name        string
		env         map[string]string
		wantSession string
		wantPaths   []string
	}{
		{
			name:        "no overrides",
			env:         map[string]string{},
			wantSession: "Default",
			wantPaths:   []string{"/from/file"},
		},
		{
			name:        "default session",
			env:         map[string]string{EnvDefaultSession: "Main"},
			wantSession: "Main",
			wantPaths:   []string{"/from/file"},
		},
		{
			name:        "empty default session ignored",
			env:         map[string]string{EnvDefaultSession: ""},
			wantSession: "Default",
			wantPaths:   []string{"/from/file"},
		},
		{
			name:        "paths replace file paths",
			env:         map[string]string{EnvPaths: "/a" + sep + "/b"},
			wantSession: "Default",
			wantPaths:   []string{"/a", "/b"},
		},
		{
			name:        "blank path entries dropped",
			env:         map[string]string{EnvPaths: sep + "/a" + sep + " " + sep},
			wantSession: "Default",
			wantPaths:   []string{"/a"},
		},
		{
			name:        "empty paths ignored",
			env:         map[string]string{EnvPaths: ""},
			wantSession: "Default",
			wantPaths:   []string{"/from/file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Paths = []string{"/from/file"}

			cfg.ApplyEnv(envMap(tt.env))

			if cfg.DefaultSession != tt.wantSession {
				t.Errorf("DefaultSession = %q, want %q", cfg.DefaultSession, tt.wantSession)
			}
			if !reflect.DeepEqual(cfg.Paths, tt.wantPaths) {
				t.Errorf("Paths = %v, want %v", cfg.Paths, tt.wantPaths)
			}
		})
	}
}

func TestLoadDir_AppliesEnvironment(t *testing.T) {
	dir := writeConfig(t, "paths: [/from/file]\n")
	t.Setenv(EnvDefaultSession, "Env")
	t.Setenv(EnvPaths, "/from/env")

	cfg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if cfg.DefaultSession != "Env" {
		t.Errorf("DefaultSession = %q, want Env", cfg.DefaultSession)
	}
	if !reflect.DeepEqual(cfg.Paths, []string{"/from/env"}) {
		t.Errorf("Paths = %v, want [/from/env]", cfg.Paths)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		is      error
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "no paths", mutate: func(c *Config) { c.Paths = nil }, wantErr: true, is: ErrNoPaths},
		{name: "blank default session", mutate: func(c *Config) { c.DefaultSession = " " }, wantErr: true},
		{name: "fzf selector", mutate: func(c *Config) { c.Selector = "fzf" }},
		{name: "builtin selector", mutate: func(c *Config) { c.Selector = "builtin" }},
		{name: "unknown selector", mutate: func(c *Config) { c.Selector = "skim" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Paths = []string{"/code"}
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("Validate() error = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestValidate_UnknownSelectorMessage(t *testing.T) {
	cfg := Config{DefaultSession: "Default", Paths: []string{"/code"}, Selector: "skim"}

	err := cfg.Validate()
	if err == nil || err.Error() != "selector must be 'fzf' or 'builtin', got: skim" {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestDetectedSelector_ConfiguredValue(t *testing.T) {
	cfg := Config{Selector: "builtin"}
	got := cfg.DetectedSelectorWith(func(name string) (string, error) {
		return "/usr/bin/" + name, nil
	})
	if got != "builtin" {
		t.Errorf("DetectedSelector: got %q, want %q", got, "builtin")
	}
}

func TestDetectedSelector_AutoDetect(t *testing.T) {
	cfg := Config{}

	got := cfg.DetectedSelectorWith(func(name string) (string, error) {
		if name == "fzf" {
			return "/usr/bin/fzf", nil
		}
		return "", os.ErrNotExist
	})
	if got != "fzf" {
		t.Errorf("DetectedSelector: got %q, want %q", got, "fzf")
	}
}

func TestDetectedSelector_Fallback(t *testing.T) {
	cfg := Config{}

	got := cfg.DetectedSelectorWith(func(name string) (string, error) {
		return "", os.ErrNotExist
	})
	if got != "builtin" {
		t.Errorf("DetectedSelector: got %q, want %q", got, "builtin")
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := Dir(); got != filepath.Join("/xdg", "rigit") {
		t.Errorf("Dir() = %q", got)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := Dir(); got != filepath.Join(home, ".config", "rigit") {
		t.Errorf("Dir() = %q", got)
	}
}
