package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the llmclean config directory path.
// Uses $XDG_CONFIG_HOME/llmclean if set, otherwise ~/.config/llmclean.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "llmclean")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "llmclean")
}

// WriteDefault writes a default config.toml in ConfigDir.
// Returns the config file path and whether a file was written; an
// existing config is left untouched.
func WriteDefault() (string, bool, error) {
	return WriteDefaultTo(filepath.Join(ConfigDir(), "config.toml"))
}

// WriteDefaultTo writes the default config to path unless a file is
// already there.
func WriteDefaultTo(path string) (string, bool, error) {
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("create config dir: %w", err)
	}

	d := DefaultConfig()
	content := fmt.Sprintf(`preserve_comments = %t
output_format = %q
max_input_bytes = %d
state_dir = %q

[output]
dir = ""
extension = ""

[archive]
enabled = %t
dir = ""

[history]
enabled = %t

[watch]
debounce_ms = %d

[completion]
timeout_seconds = %d
model = %q
api_key_env = %q
base_url = %q
system_prompt = %q
`, d.PreserveComments, d.OutputFormat, d.MaxInputBytes, d.StateDir,
		d.Archive.Enabled, d.History.Enabled, d.Watch.DebounceMS,
		d.Completion.TimeoutSeconds, d.Completion.Model, d.Completion.APIKeyEnv,
		d.Completion.BaseURL, d.Completion.SystemPrompt)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", false, fmt.Errorf("write config: %w", err)
	}

	return path, true, nil
}

// CompressHome replaces $HOME prefix with ~/ for display.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
