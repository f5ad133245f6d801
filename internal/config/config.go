package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all llmclean configuration.
type Config struct {
	PreserveComments bool   `toml:"preserve_comments"`
	OutputFormat     string `toml:"output_format"`
	MaxInputBytes    int    `toml:"max_input_bytes"`
	StateDir         string `toml:"state_dir"`

	Output     OutputConfig     `toml:"output"`
	Archive    ArchiveConfig    `toml:"archive"`
	History    HistoryConfig    `toml:"history"`
	Watch      WatchConfig      `toml:"watch"`
	Completion CompletionConfig `toml:"completion"`
}

type OutputConfig struct {
	Dir       string `toml:"dir"`
	Extension string `toml:"extension"`
}

type ArchiveConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

type CompletionConfig struct {
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Model          string `toml:"model"`
	APIKeyEnv      string `toml:"api_key_env"`
	BaseURL        string `toml:"base_url"`
	SystemPrompt   string `toml:"system_prompt"`
}

const defaultSystemPrompt = "You are a helpful assistant. Answer with a single fenced code block."

var outputFormats = map[string]bool{
	"text":     true,
	"json":     true,
	"yaml":     true,
	"markdown": true,
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		PreserveComments: true,
		OutputFormat:     "text",
		MaxInputBytes:    1 << 20,
		StateDir:         "~/.local/state/llmclean",
		Archive: ArchiveConfig{
			Enabled: false,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Watch: WatchConfig{
			DebounceMS: 300,
		},
		Completion: CompletionConfig{
			TimeoutSeconds: 60,
			Model:          "gpt-4o-mini",
			APIKeyEnv:      "OPENAI_API_KEY",
			BaseURL:        "https://api.openai.com/v1",
			SystemPrompt:   defaultSystemPrompt,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	cfg := DefaultConfig()
	cfg.expand()
	return cfg, nil
}

// LoadFile reads config from an explicit path on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.expand()
	return cfg, nil
}

// Validate rejects values the rest of the program cannot act on.
func (c Config) Validate() error {
	if !outputFormats[c.OutputFormat] {
		return fmt.Errorf("unknown output_format %q", c.OutputFormat)
	}
	if c.MaxInputBytes < 0 {
		return fmt.Errorf("max_input_bytes must not be negative")
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative")
	}
	return nil
}

func (c *Config) expand() {
	c.StateDir = expandHome(c.StateDir)
	c.Output.Dir = expandHome(c.Output.Dir)
	c.Archive.Dir = expandHome(c.Archive.Dir)
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "llmclean", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "llmclean", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// ArchiveDir returns where raw completions are archived.
func (c Config) ArchiveDir() string {
	if c.Archive.Dir != "" {
		return c.Archive.Dir
	}
	return filepath.Join(c.StateDir, "archive")
}

// HistoryPath returns the SQLite history database path.
func (c Config) HistoryPath() string {
	return filepath.Join(c.StateDir, "history.db")
}
