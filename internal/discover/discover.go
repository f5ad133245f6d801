package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/suykerbuyk/llmclean/internal/archive"
)

// extensions lists the suffixes treated as raw model completions.
var extensions = []string{".txt", ".md", ".out", ".llm"}

// CleanMarker is inserted before the extension of files written by llmclean.
// Files carrying it are outputs, never inputs.
const CleanMarker = ".clean"

// CompletionFile represents a discovered completion on disk.
type CompletionFile struct {
	Path       string
	Name       string // file name without the .zst suffix
	Compressed bool   // true for .zst inputs
	ModTime    int64  // unix timestamp for sorting
}

// IsCompletion reports whether path names a completion file llmclean
// should process.
func IsCompletion(path string) bool {
	name := archive.BaseName(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if strings.HasSuffix(stem, CleanMarker) {
		return false
	}
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Discover walks basePath recursively and returns all completion files,
// sorted by modification time (oldest first). Hidden directories are
// skipped.
func Discover(basePath string) ([]CompletionFile, error) {
	var results []CompletionFile

	err := filepath.Walk(basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if info.IsDir() {
			if path != basePath && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsCompletion(path) {
			return nil
		}

		results = append(results, CompletionFile{
			Path:       path,
			Name:       archive.BaseName(path),
			Compressed: archive.IsCompressed(path),
			ModTime:    info.ModTime().Unix(),
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].ModTime != results[j].ModTime {
			return results[i].ModTime < results[j].ModTime
		}
		return results[i].Path < results[j].Path
	})

	return results, nil
}
