package check

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suykerbuyk/llmclean/internal/config"
	"github.com/suykerbuyk/llmclean/internal/index"
)

func TestCheckConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	r := CheckConfig(path)
	if r.Status != Warn {
		t.Errorf("missing config: expected Warn, got %s: %s", r.Status, r.Detail)
	}

	os.WriteFile(path, []byte("output_format = \"json\"\n"), 0o644)
	r = CheckConfig(path)
	if r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckDir_Pass(t *testing.T) {
	r := CheckDir("state", t.TempDir())
	if r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckDir_Missing(t *testing.T) {
	r := CheckDir("state", "/nonexistent/llmclean/state")
	if r.Status != Warn {
		t.Errorf("expected Warn, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckDir_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	os.WriteFile(path, []byte("x"), 0o644)
	r := CheckDir("output", path)
	if r.Status != Fail {
		t.Errorf("expected Fail, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckDir_LeavesNoProbeFile(t *testing.T) {
	dir := t.TempDir()
	CheckDir("state", dir)
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("probe file left behind: %v", entries)
	}
}

func TestCheckHistory(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	cfg.StateDir = t.TempDir()

	r := CheckHistory(ctx, cfg)
	if r.Status != Warn {
		t.Errorf("missing db: expected Warn, got %s: %s", r.Status, r.Detail)
	}

	idx, err := index.Open(cfg.HistoryPath())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := idx.Record(ctx, index.Entry{Digest: index.Digest([]byte("a")), ContentType: "sql"}); err != nil {
		t.Fatal(err)
	}
	idx.Close()

	r = CheckHistory(ctx, cfg)
	if r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}
	if r.Detail != "history.db (1 entries)" {
		t.Errorf("unexpected detail: %s", r.Detail)
	}

	cfg.History.Enabled = false
	r = CheckHistory(ctx, cfg)
	if r.Status != Pass || r.Detail != "disabled" {
		t.Errorf("disabled history: got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckArchive(t *testing.T) {
	cfg := config.DefaultConfig()
	if r := CheckArchive(cfg); r.Detail != "disabled" {
		t.Errorf("expected disabled, got %s", r.Detail)
	}

	cfg.Archive.Enabled = true
	cfg.Archive.Dir = t.TempDir()
	if r := CheckArchive(cfg); r.Status != Pass || r.Name != "archive" {
		t.Errorf("expected archive Pass, got %+v", r)
	}
}

func TestCheckOutput(t *testing.T) {
	cfg := config.DefaultConfig()
	if r := CheckOutput(cfg); r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}

	cfg.Output.Dir = "/nonexistent/out"
	if r := CheckOutput(cfg); r.Status != Warn {
		t.Errorf("expected Warn, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckCompletion(t *testing.T) {
	t.Setenv("LLMCLEAN_TEST_KEY", "")
	ccfg := config.CompletionConfig{APIKeyEnv: "LLMCLEAN_TEST_KEY", Model: "m"}

	if r := CheckCompletion(ccfg); r.Status != Warn {
		t.Errorf("unset key: expected Warn, got %s", r.Status)
	}

	t.Setenv("LLMCLEAN_TEST_KEY", "secret")
	r := CheckCompletion(ccfg)
	if r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}
	if strings.Contains(r.Detail, "secret") {
		t.Errorf("detail leaks the key: %s", r.Detail)
	}

	if r := CheckCompletion(config.CompletionConfig{}); r.Status != Warn {
		t.Errorf("empty env name: expected Warn, got %s", r.Status)
	}
}

func TestReport_Format(t *testing.T) {
	r := Report{Results: []Result{
		{Name: "config", Status: Pass, Detail: "ok"},
		{Name: "history", Status: Warn, Detail: "not yet"},
		{Name: "state", Status: Fail, Detail: "broken"},
	}}

	if !r.HasFailures() {
		t.Error("HasFailures() = false")
	}
	out := r.Format()
	for _, want := range []string{"llmclean check", "pass  config", "warn  history", "FAIL  state", "1 passed, 1 warning, 1 failure"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReport_Empty(t *testing.T) {
	r := Report{}
	if r.HasFailures() {
		t.Error("empty report has failures")
	}
	if !strings.Contains(r.Format(), "no checks ran") {
		t.Errorf("unexpected output: %s", r.Format())
	}
}

func TestRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.StateDir = t.TempDir()
	cfg.Completion.APIKeyEnv = "LLMCLEAN_TEST_UNSET_KEY"

	rep := Run(context.Background(), cfg, filepath.Join(t.TempDir(), "config.toml"))
	if len(rep.Results) != 6 {
		t.Fatalf("got %d results, want 6", len(rep.Results))
	}
	if rep.HasFailures() {
		t.Errorf("unexpected failure:\n%s", rep.Format())
	}
}
