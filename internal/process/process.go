// Package process runs the file pipeline around the cleaner: read a raw
// completion, clean it, render and write the output, archive the input and
// record it in the history index.
package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/suykerbuyk/llmclean/internal/archive"
	"github.com/suykerbuyk/llmclean/internal/clean"
	"github.com/suykerbuyk/llmclean/internal/config"
	"github.com/suykerbuyk/llmclean/internal/discover"
	"github.com/suykerbuyk/llmclean/internal/index"
	"github.com/suykerbuyk/llmclean/internal/render"
)

// FileResult holds the outcome of processing one input.
type FileResult struct {
	Source      string
	OutputPath  string
	ArchivePath string
	Result      clean.Result
	Skipped     bool
	Reason      string
	Err         error
}

// Processor carries the settings shared by every file in a run.
// Safe for concurrent use.
type Processor struct {
	cfg        config.Config
	format     render.Format
	idx        *index.Index
	log        *zap.Logger
	force      bool
	includeRaw bool
}

// Option customises a Processor.
type Option func(*Processor)

// WithIndex records processed inputs in idx and skips inputs already there.
func WithIndex(idx *index.Index) Option { return func(p *Processor) { p.idx = idx } }

// WithLogger sets the logger for pipeline and cleaner diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

// WithFormat overrides the configured output format.
func WithFormat(f render.Format) Option { return func(p *Processor) { p.format = f } }

// WithForce reprocesses inputs the index has already seen.
func WithForce(force bool) Option { return func(p *Processor) { p.force = force } }

// WithRaw includes the raw input in json and yaml output.
func WithRaw(include bool) Option { return func(p *Processor) { p.includeRaw = include } }

// New builds a Processor from cfg.
func New(cfg config.Config, opts ...Option) (*Processor, error) {
	format, err := render.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}
	p := &Processor{
		cfg:    cfg,
		format: format,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if _, err := render.ParseFormat(string(p.format)); err != nil {
		return nil, err
	}
	return p, nil
}

// Format returns the output format in effect.
func (p *Processor) Format() render.Format {
	return p.format
}

// Clean runs the cleaner with the configured options.
func (p *Processor) Clean(raw string) clean.Result {
	return clean.Clean(raw,
		clean.WithPreserveComments(p.cfg.PreserveComments),
		clean.WithMaxInputBytes(p.cfg.MaxInputBytes),
		clean.WithLogger(p.log),
	)
}

// Render renders r in the configured format.
func (p *Processor) Render(r clean.Result) (string, error) {
	return render.Render(r, p.format, render.WithRaw(p.includeRaw))
}

// File processes one completion file. Empty input is reported as an error
// wrapping clean.ErrEmptyInput.
func (p *Processor) File(ctx context.Context, path string) (*FileResult, error) {
	data, err := archive.ReadInput(path)
	if err != nil {
		return nil, err
	}
	digest := index.Digest(data)

	if p.idx != nil && !p.force {
		seen, err := p.idx.Has(ctx, digest)
		if err != nil {
			p.log.Warn("could not query history", zap.String("path", path), zap.Error(err))
		} else if seen {
			p.log.Debug("skipping processed input", zap.String("path", path))
			return &FileResult{
				Source:      path,
				ArchivePath: p.backfillArchive(ctx, path, digest),
				Skipped:     true,
				Reason:      "already processed",
			}, nil
		}
	}

	r := p.Clean(string(data))
	if !r.OK() {
		return nil, fmt.Errorf("%s: %w", path, r.Err)
	}

	out, err := p.Render(r)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}

	outPath := p.OutputPath(path, r.ContentType)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}

	res := &FileResult{Source: path, OutputPath: outPath, Result: r}

	if p.cfg.Archive.Enabled && !archive.IsCompressed(path) {
		archPath, err := archive.Archive(path, p.cfg.ArchiveDir())
		if err != nil {
			p.log.Warn("could not archive input", zap.String("path", path), zap.Error(err))
		} else {
			res.ArchivePath = archPath
		}
	}

	p.record(ctx, digest, len(data), res)

	p.log.Info("processed completion",
		zap.String("path", path),
		zap.String("output", outPath),
		zap.String("content_type", r.ContentType.String()),
	)
	return res, nil
}

// Reply cleans a completion that did not come from a file, such as a reply
// fetched by the ask command. name labels it in the archive and history.
func (p *Processor) Reply(ctx context.Context, raw, name string) (*FileResult, error) {
	r := p.Clean(raw)
	if !r.OK() {
		return nil, r.Err
	}

	res := &FileResult{Source: name, Result: r}
	if p.cfg.Archive.Enabled {
		archPath, err := archive.Store([]byte(raw), name, p.cfg.ArchiveDir())
		if err != nil {
			p.log.Warn("could not archive reply", zap.String("name", name), zap.Error(err))
		} else {
			res.ArchivePath = archPath
		}
	}

	p.record(ctx, index.Digest([]byte(raw)), len(raw), res)
	return res, nil
}

// backfillArchive archives an input that was indexed while archiving was
// off. It returns the new archive path, or "" when nothing was written.
func (p *Processor) backfillArchive(ctx context.Context, path, digest string) string {
	if !p.cfg.Archive.Enabled || archive.IsCompressed(path) {
		return ""
	}
	dir := p.cfg.ArchiveDir()
	if archive.IsArchived(filepath.Base(path), dir) {
		return ""
	}

	archPath, err := archive.Archive(path, dir)
	if err != nil {
		p.log.Warn("could not archive input", zap.String("path", path), zap.Error(err))
		return ""
	}

	e, err := p.idx.Lookup(ctx, digest)
	if err != nil {
		p.log.Warn("could not query history", zap.String("path", path), zap.Error(err))
		return archPath
	}
	e.ArchivePath = archPath
	if _, err := p.idx.Record(ctx, *e); err != nil {
		p.log.Warn("could not record history", zap.String("source", path), zap.Error(err))
	}
	return archPath
}

func (p *Processor) record(ctx context.Context, digest string, inputBytes int, res *FileResult) {
	if p.idx == nil {
		return
	}
	r := res.Result
	var tags []string
	for tag := range r.Aux {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	_, err := p.idx.Record(ctx, index.Entry{
		Digest:      digest,
		Source:      res.Source,
		ContentType: r.ContentType.String(),
		AuxTags:     tags,
		InputBytes:  inputBytes,
		CodeBytes:   len(r.Code),
		Truncated:   r.Truncated,
		OutputPath:  res.OutputPath,
		ArchivePath: res.ArchivePath,
	})
	if err != nil {
		p.log.Warn("could not record history", zap.String("source", res.Source), zap.Error(err))
	}
}

// OutputPath returns where the cleaned form of src is written:
// <dir>/<stem>.clean<ext>, next to src unless an output dir is configured.
func (p *Processor) OutputPath(src string, ct clean.ContentType) string {
	dir := p.cfg.Output.Dir
	if dir == "" {
		dir = filepath.Dir(src)
	}

	name := archive.BaseName(src)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	ext := p.cfg.Output.Extension
	if ext == "" {
		ext = render.FileExtension(ct, p.format)
	} else if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return filepath.Join(dir, stem+discover.CleanMarker+ext)
}

// Batch processes paths with at most jobs files in flight. A failing file
// does not stop the others; the joined errors are returned alongside the
// per-file results, which keep the order of paths.
func (p *Processor) Batch(ctx context.Context, paths []string, jobs int) ([]FileResult, error) {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]FileResult, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := p.File(gCtx, path)
			if err != nil {
				p.log.Warn("process failed", zap.String("path", path), zap.Error(err))
				results[i] = FileResult{Source: path, Err: err}
				return nil // Don't fail the group on individual errors.
			}
			results[i] = *res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}

// Dir discovers every completion under dir and processes them as a batch.
func (p *Processor) Dir(ctx context.Context, dir string, jobs int) ([]FileResult, error) {
	files, err := discover.Discover(dir)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", dir, err)
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return p.Batch(ctx, paths, jobs)
}
