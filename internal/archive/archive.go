package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Ext is the suffix of compressed completions.
const Ext = ".zst"

// Archive compresses srcPath into archiveDir/{base}.zst.
// Returns the archive path.
func Archive(srcPath, archiveDir string) (string, error) {
	name := filepath.Base(srcPath)
	if IsCompressed(name) {
		return "", fmt.Errorf("%s is already compressed", srcPath)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	return write(src, name, archiveDir)
}

// Store compresses data into archiveDir/{name}.zst. Used for completions
// that never touched disk, such as replies fetched by the ask command.
func Store(data []byte, name, archiveDir string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid archive name %q", name)
	}
	return write(bytes.NewReader(data), name, archiveDir)
}

func write(src io.Reader, name, archiveDir string) (string, error) {
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	destPath := ArchivePath(name, archiveDir)
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer dest.Close()

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		return "", fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := io.Copy(encoder, src); err != nil {
		encoder.Close()
		return "", fmt.Errorf("compress: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("finalize compression: %w", err)
	}

	return destPath, nil
}

// ReadInput returns the contents of path, decompressing it first when it
// carries the .zst suffix.
func ReadInput(path string) ([]byte, error) {
	if !IsCompressed(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return data, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	return Decompress(f)
}

// Decompress reads a whole zstd stream from r.
func Decompress(r io.Reader) ([]byte, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()

	data, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	return data, nil
}

// IsArchived returns true if an archive file exists for the given name.
func IsArchived(name, archiveDir string) bool {
	_, err := os.Stat(ArchivePath(name, archiveDir))
	return err == nil
}

// ArchivePath returns the deterministic archive path for a file name.
func ArchivePath(name, archiveDir string) string {
	return filepath.Join(archiveDir, name+Ext)
}

// IsCompressed reports whether path names a zstd-compressed completion.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, Ext)
}

// BaseName strips the .zst suffix, if any, from the file name of path.
func BaseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), Ext)
}
