package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/occupancy"
	"github.com/ziadkadry99/officespace/internal/progress"
)

// Importer loads roster files through the occupancy service so that each
// file is audited and announced like any other change.
type Importer struct {
	svc      *occupancy.Service
	reporter progress.Reporter
	logger   *zap.Logger
	exclude  []string
}

// Option configures an Importer.
type Option func(*Importer)

// WithReporter sets the progress reporter.
func WithReporter(r progress.Reporter) Option {
	return func(im *Importer) { im.reporter = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(im *Importer) { im.logger = l }
}

// WithExclude skips expanded files matching any of the glob patterns.
func WithExclude(patterns ...string) Option {
	return func(im *Importer) { im.exclude = append(im.exclude, patterns...) }
}

// New creates an Importer writing through svc.
func New(svc *occupancy.Service, opts ...Option) *Importer {
	im := &Importer{svc: svc, reporter: progress.Nop{}, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(im)
	}
	im.logger = im.logger.Named("importer")
	return im
}

// Expand resolves paths and doublestar globs to a sorted, de-duplicated
// list of roster files. A plain path must exist.
func (im *Importer) Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] && !matchesAny(p, im.exclude) {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			if _, err := os.Stat(pattern); err != nil {
				return nil, fmt.Errorf("roster file %s: %w", pattern, err)
			}
			add(pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", pattern, err)
		}
		for _, m := range matches {
			if isRoster(m) {
				add(m)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, strings.Join(patterns, " "))
	}
	sort.Strings(files)
	return files, nil
}

// Run imports every file matched by patterns. A file that fails to parse
// is reported in its summary and does not stop the others; the returned
// error is the first such failure.
func (im *Importer) Run(ctx context.Context, patterns []string) ([]Summary, error) {
	files, err := im.Expand(patterns)
	if err != nil {
		return nil, err
	}

	im.reporter.Start(len(files))
	defer im.reporter.Finish()

	var (
		summaries []Summary
		firstErr  error
	)
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}
		im.reporter.Update(i+1, filepath.Base(path))
		sum, err := im.ImportFile(ctx, path)
		summaries = append(summaries, sum)
		if err != nil {
			im.logger.Error("import failed", zap.String("file", path), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return summaries, firstErr
}

// ImportFile reads one CSV or XLSX file and stores its rows.
func (im *Importer) ImportFile(ctx context.Context, path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{File: path}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return im.Import(ctx, f, path)
}

// Import reads a roster whose format is chosen by the extension of name.
func (im *Importer) Import(ctx context.Context, r io.Reader, name string) (Summary, error) {
	var (
		records []occupancy.Record
		sum     Summary
		err     error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		records, sum, err = ReadCSV(r, name, im.logger)
	case ".xlsx":
		records, sum, err = ReadXLSX(r, name, im.logger)
	default:
		return Summary{File: name}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return sum, err
	}

	n, err := im.svc.Import(ctx, records, filepath.Base(name))
	if err != nil {
		return sum, fmt.Errorf("storing %s: %w", name, err)
	}
	sum.Inserted = n
	im.logger.Info("roster imported",
		zap.String("file", name),
		zap.Int("processed", sum.Processed),
		zap.Int("inserted", sum.Inserted),
		zap.Int("skipped", sum.Skipped),
	)
	return sum, nil
}

// Export writes every assignment to w as a workbook.
func Export(ctx context.Context, store *occupancy.Store, w io.Writer) (int, error) {
	records, err := store.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := WriteXLSX(w, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

func isRoster(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

func matchesAny(path string, patterns []string) bool {
	normalized := filepath.ToSlash(path)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, err := doublestar.PathMatch(pattern, normalized); err == nil && ok {
			return true
		}
		if ok, err := doublestar.PathMatch(pattern, filepath.Base(normalized)); err == nil && ok {
			return true
		}
	}
	return false
}
