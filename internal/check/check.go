// Package check diagnoses an llmclean installation.
package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/llmclean/internal/config"
	"github.com/suykerbuyk/llmclean/internal/index"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "llmclean check\n\n  no checks ran\n"
	}

	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("llmclean check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports which config file is in effect. Broken TOML never
// gets here: loading fails first.
func CheckConfig(path string) Result {
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.toml")
	}
	if _, err := os.Stat(path); err != nil {
		return Result{Name: "config", Status: Warn, Detail: config.CompressHome(path) + " not found (using defaults)"}
	}
	return Result{Name: "config", Status: Pass, Detail: config.CompressHome(path)}
}

// CheckDir checks that dir exists and is writable. A missing directory
// is only a warning because llmclean creates it on first use.
func CheckDir(name, dir string) Result {
	info, err := os.Stat(dir)
	if err != nil {
		return Result{Name: name, Status: Warn, Detail: config.CompressHome(dir) + " not found (created on first use)"}
	}
	if !info.IsDir() {
		return Result{Name: name, Status: Fail, Detail: config.CompressHome(dir) + " is not a directory"}
	}
	f, err := os.CreateTemp(dir, ".llmclean-check-*")
	if err != nil {
		return Result{Name: name, Status: Fail, Detail: config.CompressHome(dir) + " not writable"}
	}
	f.Close()
	os.Remove(f.Name())
	return Result{Name: name, Status: Pass, Detail: config.CompressHome(dir)}
}

// CheckHistory opens the history database and reports its size.
func CheckHistory(ctx context.Context, cfg config.Config) Result {
	if !cfg.History.Enabled {
		return Result{Name: "history", Status: Pass, Detail: "disabled"}
	}
	path := cfg.HistoryPath()
	if _, err := os.Stat(path); err != nil {
		return Result{Name: "history", Status: Warn, Detail: "history.db not found yet"}
	}
	idx, err := index.Open(path)
	if err != nil {
		return Result{Name: "history", Status: Fail, Detail: err.Error()}
	}
	defer idx.Close()
	n, err := idx.Count(ctx)
	if err != nil {
		return Result{Name: "history", Status: Fail, Detail: "history.db unreadable: " + err.Error()}
	}
	return Result{Name: "history", Status: Pass, Detail: fmt.Sprintf("history.db (%d entries)", n)}
}

// CheckArchive checks the archive directory when archiving is enabled.
func CheckArchive(cfg config.Config) Result {
	if !cfg.Archive.Enabled {
		return Result{Name: "archive", Status: Pass, Detail: "disabled"}
	}
	return CheckDir("archive", cfg.ArchiveDir())
}

// CheckOutput checks the configured output directory, if any.
func CheckOutput(cfg config.Config) Result {
	if cfg.Output.Dir == "" {
		return Result{Name: "output", Status: Pass, Detail: "next to each input"}
	}
	return CheckDir("output", cfg.Output.Dir)
}

// CheckCompletion checks that the API key used by ask is available.
func CheckCompletion(ccfg config.CompletionConfig) Result {
	keyEnv := ccfg.APIKeyEnv
	if keyEnv == "" {
		return Result{Name: "completion", Status: Warn, Detail: "api_key_env not set"}
	}
	if os.Getenv(keyEnv) != "" {
		return Result{Name: "completion", Status: Pass, Detail: keyEnv + " set (" + ccfg.Model + ")"}
	}
	return Result{Name: "completion", Status: Warn, Detail: keyEnv + " not set (ask unavailable)"}
}

// Run executes all checks against the given config and returns a report.
// cfgPath is the explicit --config path, or "" for the default location.
func Run(ctx context.Context, cfg config.Config, cfgPath string) Report {
	var results []Result

	results = append(results, CheckConfig(cfgPath))
	results = append(results, CheckDir("state", cfg.StateDir))
	results = append(results, CheckHistory(ctx, cfg))
	results = append(results, CheckArchive(cfg))
	results = append(results, CheckOutput(cfg))
	results = append(results, CheckCompletion(cfg.Completion))

	return Report{Results: results}
}
