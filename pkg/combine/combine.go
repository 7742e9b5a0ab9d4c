// Package combine aggregates the files of a directory tree into a single
// text, Markdown or HTML document.
//
// A run walks the tree in a deterministic order, filters and reads the files
// on a bounded worker pool, reassembles the results in discovery order and
// renders them. Per-file read failures are reported in the Summary and never
// abort the run; an invalid root, an invalid configuration or an unwritable
// sink do, and in that case nothing is written.
package combine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"filefusion/pkg/ignore"

	"go.uber.org/zap"
)

// Run orchestrates one complete pass over cfg.Root and writes the rendered
// document to sink. The returned Summary lists per-file errors; the error is
// non-nil only for fatal failures.
func Run(ctx context.Context, cfg Config, sink Sink, logger *zap.Logger, progress ProgressFunc) (*Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, &ConfigError{Field: "output", Reason: "an output sink is required"}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	startTime := time.Now()
	logger.Info("Starting combination process", zap.String("directory", cfg.Root))

	parentDir, err := checkRoot(cfg.Root)
	if err != nil {
		logger.Error("Invalid root directory", zap.Error(err))
		return nil, err
	}

	matcher, err := ignore.Load(parentDir, ignore.Options{
		Files:            cfg.IgnoreFiles,
		Patterns:         cfg.IgnorePatterns,
		RespectGitignore: cfg.RespectGitignore,
	}, logger)
	if err != nil {
		logger.Error("Failed to load ignore patterns", zap.Error(err))
		return nil, &ConfigError{Field: "ignore", Reason: err.Error()}
	}

	var skip []string
	if cfg.OutputPath != "" {
		skip = append(skip, cfg.OutputPath)
	}
	tasks, err := Walk(parentDir, cfg.Recursive, WalkOptions{Skip: skip, Ignore: matcher, Logger: logger})
	if err != nil {
		logger.Error("Failed to collect files", zap.Error(err))
		return nil, err
	}
	logger.Info("Discovered files", zap.Int("count", len(tasks)))

	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	pool := NewPool(workers, cfg.Filter, logger)
	slots, err := pool.Run(ctx, tasks, progress)
	if err != nil {
		logger.Error("File processing aborted", zap.Error(err))
		return nil, fmt.Errorf("file processing aborted: %w", err)
	}

	records, fileErrs := Aggregate(slots)
	summary := Summary{
		Root:       cfg.Root,
		Discovered: len(tasks),
		Included:   len(records),
		Errored:    len(fileErrs),
		Excluded:   len(tasks) - len(records) - len(fileErrs),
		Errors:     fileErrs,
	}
	for _, rec := range records {
		summary.TotalBytes += rec.Meta.Size
	}

	doc := Document{
		Root:        cfg.Root,
		GeneratedAt: clock(),
		Records:     records,
		Summary:     summary,
	}
	var buf bytes.Buffer
	if err := Render(&buf, doc, cfg.Render); err != nil {
		logger.Error("Failed to render output", zap.Error(err))
		return nil, fmt.Errorf("failed to render output: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled before writing output: %w", err)
	}
	if err := sink.Write(buf.Bytes()); err != nil {
		logger.Error("Failed to write combined output", zap.String("sink", sink.Name()), zap.Error(err))
		return nil, err
	}

	summary.Elapsed = time.Since(startTime)
	logger.Info("Successfully combined files",
		zap.String("output", sink.Name()),
		zap.Int("included", summary.Included),
		zap.Int("excluded", summary.Excluded),
		zap.Int("errored", summary.Errored),
		zap.Duration("elapsed", summary.Elapsed),
	)
	return &summary, nil
}

// checkRoot resolves root to an absolute directory path.
func checkRoot(root string) (string, error) {
	parentDir, err := filepath.Abs(root)
	if err != nil {
		return "", &DirectoryError{Path: root, Err: err}
	}
	info, err := os.Stat(parentDir)
	if err != nil {
		return "", &DirectoryError{Path: parentDir, Err: err}
	}
	if !info.IsDir() {
		return "", &DirectoryError{Path: parentDir, Err: ErrNotDirectory}
	}
	return parentDir, nil
}
