package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	appName  = "rigit"
	fileName = "config.yaml"

	// EnvDefaultSession overrides default_session.
	EnvDefaultSession = "DEFAULT_SESSION"
	// EnvPaths overrides paths with a path-list-separated list of roots.
	EnvPaths = "SESSIONIZER_PATHS"

	SelectorFzf     = "fzf"
	SelectorBuiltin = "builtin"
)

// ErrNoPaths means no root paths were configured.
var ErrNoPaths = errors.New("no root paths configured: set paths in the config file or " + EnvPaths)

type Config struct {
	DefaultSession string   `yaml:"default_session"`
	Paths          []string `yaml:"paths"`
	Editor         string   `yaml:"editor"`
	EditorWindow   string   `yaml:"editor_window"`
	ShellWindow    string   `yaml:"shell_window"`
	Selector       string   `yaml:"selector"`
	FzfArgs        []string `yaml:"fzf_args"`
	Theme          string   `yaml:"theme"`
	LogLevel       string   `yaml:"log_level"`
}

// LookPathFunc is the function signature for looking up executables.
type LookPathFunc func(name string) (string, error)

// LookupEnvFunc is the function signature for reading environment variables.
type LookupEnvFunc func(key string) (string, bool)

func DefaultConfig() Config {
	return Config{
		DefaultSession: "Default",
		Editor:         "nvim",
		EditorWindow:   "Neovim",
		ShellWindow:    "Bash",
		Theme:          "mocha",
		LogLevel:       "info",
	}
}

// Load reads the config file from the default directory and applies the
// environment overrides.
func Load() (Config, error) {
	return LoadDir(Dir())
}

// LoadDir reads config.yaml from dir and applies the environment overrides.
func LoadDir(dir string) (Config, error) {
	cfg, err := LoadFrom(Path(dir))
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// LoadFrom reads configPath. A missing file yields the defaults.
func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", configPath, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", configPath, err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults restores defaults for keys present in the file but empty.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.DefaultSession == "" {
		c.DefaultSession = def.DefaultSession
	}
	if c.EditorWindow == "" {
		c.EditorWindow = def.EditorWindow
	}
	if c.ShellWindow == "" {
		c.ShellWindow = def.ShellWindow
	}
	if c.Theme == "" {
		c.Theme = def.Theme
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// ApplyEnv overlays DEFAULT_SESSION and SESSIONIZER_PATHS. Empty values are
// ignored.
func (c *Config) ApplyEnv(lookup LookupEnvFunc) {
	if name, ok := lookup(EnvDefaultSession); ok && name != "" {
		c.DefaultSession = name
	}
	if raw, ok := lookup(EnvPaths); ok {
		if paths := SplitPaths(raw); len(paths) > 0 {
			c.Paths = paths
		}
	}
}

// SplitPaths splits a path list on the OS separator and drops blank entries.
func SplitPaths(raw string) []string {
	var paths []string
	for _, p := range filepath.SplitList(raw) {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Validate reports configuration errors that must stop the run before any
// directory is scanned.
func (c *Config) Validate() error {
	if len(c.Paths) == 0 {
		return ErrNoPaths
	}
	if strings.TrimSpace(c.DefaultSession) == "" {
		return errors.New("default_session must not be empty")
	}
	if c.Selector != "" && !slices.Contains([]string{SelectorFzf, SelectorBuiltin}, c.Selector) {
		return fmt.Errorf("selector must be '%s' or '%s', got: %s", SelectorFzf, SelectorBuiltin, c.Selector)
	}
	return nil
}

// DetectedSelector returns the configured selector or auto-detects it.
func (c *Config) DetectedSelector() string {
	return c.DetectedSelectorWith(exec.LookPath)
}

// DetectedSelectorWith returns the configured selector, or fzf when it is on
// PATH and the built-in picker otherwise.
func (c *Config) DetectedSelectorWith(lookPath LookPathFunc) string {
	if c.Selector != "" {
		return c.Selector
	}
	if _, err := lookPath("fzf"); err == nil {
		return SelectorFzf
	}
	return SelectorBuiltin
}

// Dir returns the configuration directory.
func Dir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", appName)
	}

	return filepath.Join(home, ".config", appName)
}

// Path returns the config file inside dir.
func Path(dir string) string {
	return filepath.Join(dir, fileName)
}
