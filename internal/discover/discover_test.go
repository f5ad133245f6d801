package discover

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeCompletion(t *testing.T, path string, modTime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("```python\nprint(1)\n```\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverFindsCompletions(t *testing.T) {
	base := t.TempDir()

	writeCompletion(t, filepath.Join(base, "run-a", "reply.txt"), time.Now().Add(-time.Hour))
	writeCompletion(t, filepath.Join(base, "run-b", "answer.md"), time.Now())

	results, err := Discover(base)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}

	// Oldest first
	if results[0].Name != "reply.txt" {
		t.Errorf("first = %q, want reply.txt (oldest first)", results[0].Name)
	}
	if results[1].Name != "answer.md" {
		t.Errorf("second = %q, want answer.md", results[1].Name)
	}
}

func TestDiscoverCompressed(t *testing.T) {
	base := t.TempDir()
	writeCompletion(t, filepath.Join(base, "reply.llm.zst"), time.Now())

	results, err := Discover(base)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len = %d, want 1", len(results))
	}
	if !results[0].Compressed {
		t.Error("expected Compressed = true")
	}
	if results[0].Name != "reply.llm" {
		t.Errorf("Name = %q, want reply.llm", results[0].Name)
	}
}

func TestDiscoverSkips(t *testing.T) {
	base := t.TempDir()
	now := time.Now()

	writeCompletion(t, filepath.Join(base, "keep.out"), now)
	writeCompletion(t, filepath.Join(base, "keep.clean.py"), now)
	writeCompletion(t, filepath.Join(base, "keep.clean.md"), now)
	writeCompletion(t, filepath.Join(base, "image.png"), now)
	writeCompletion(t, filepath.Join(base, ".hidden.txt"), now)
	writeCompletion(t, filepath.Join(base, ".git", "notes.txt"), now)

	results, err := Discover(base)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(results) != 1 || results[0].Name != "keep.out" {
		t.Errorf("results = %+v, want only keep.out", results)
	}
}

func TestDiscoverEmptyDir(t *testing.T) {
	results, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len = %d, want 0", len(results))
	}
}

func TestIsCompletion(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"reply.txt", true},
		{"REPLY.TXT", true},
		{"reply.md", true},
		{"reply.out", true},
		{"reply.llm", true},
		{"reply.txt.zst", true},
		{"reply.clean.txt", false},
		{"reply.clean.md.zst", false},
		{"reply.zst", false},
		{"reply.go", false},
		{".reply.txt", false},
	}
	for _, tt := range tests {
		if got := IsCompletion(tt.path); got != tt.want {
			t.Errorf("IsCompletion(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
