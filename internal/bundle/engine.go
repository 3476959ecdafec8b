// Package bundle walks directories and aggregates file contents into a single
// budgeted blob of fenced entries.
package bundle

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/agusx1211/copycode/internal/ignore"
	"github.com/agusx1211/copycode/internal/source"
)

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	Source    source.FileSystem
	Documents source.Documents
	Logger    *zap.Logger
	Budget    int
	// Includes restricts directory traversals to matching files.
	Includes []string
	// Excludes adds gitignore-style patterns on top of the conventional ones.
	Excludes    []string
	Concurrency int
	MaxDepth    int
}

// Engine runs aggregations.
type Engine struct {
	fs        source.FileSystem
	formatter Formatter
	logger    *zap.Logger
	budget    int
	excludes  []string
	walkOpts  WalkOptions
}

// NewEngine validates opts and returns an Engine.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Source == nil {
		opts.Source = source.OS{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Budget <= 0 {
		opts.Budget = DefaultBudget
	}
	selector, err := ignore.NewSelector(opts.Includes...)
	if err != nil {
		return nil, err
	}
	return &Engine{
		fs:        opts.Source,
		formatter: Formatter{Reader: opts.Source, Documents: opts.Documents},
		logger:    opts.Logger,
		budget:    opts.Budget,
		excludes:  append([]string{}, opts.Excludes...),
		walkOpts: WalkOptions{
			Selector:    selector,
			Concurrency: opts.Concurrency,
			MaxDepth:    opts.MaxDepth,
			Logger:      opts.Logger,
		},
	}, nil
}

// Budget returns the byte budget applied to every aggregation.
func (e *Engine) Budget() int {
	return e.budget
}

// AggregateFiles aggregates files in the given order, displaying each relative
// to displayRoot. Ignore rules do not apply to an explicit selection.
func (e *Engine) AggregateFiles(ctx context.Context, files []string, displayRoot string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	result, err := Aggregate(files, displayRoot, e.budget, e.formatter)
	if err != nil {
		return Result{}, err
	}
	e.logResult(result, len(files))
	return result, nil
}

// AggregateDirectory aggregates every eligible file below dir. dir is both the
// traversal root for ignore rules and the display root.
func (e *Engine) AggregateDirectory(ctx context.Context, dir string) (Result, error) {
	matcher, err := ignore.Load(dir, e.fs, e.excludes...)
	if err != nil {
		e.logger.Warn("ignore file could not be read; using conventional excludes only",
			zap.String("dir", dir), zap.Error(err))
	}

	listing, err := Walk(ctx, e.fs, dir, dir, matcher, e.walkOpts)
	if err != nil {
		return Result{}, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	for _, skipped := range multierr.Errors(listing.Skipped) {
		e.logger.Warn("skipping unreadable directory", zap.Error(skipped))
	}
	e.logger.Debug("collected files", zap.String("dir", dir), zap.Int("count", len(listing.Files)))

	result, err := Aggregate(listing.Files, dir, e.budget, e.formatter)
	if err != nil {
		return Result{}, err
	}
	result.Skipped = listing.Skipped
	e.logResult(result, len(listing.Files))
	return result, nil
}

func (e *Engine) logResult(result Result, candidates int) {
	e.logger.Debug("aggregation finished",
		zap.Int("processed", result.Processed),
		zap.Int("candidates", candidates),
		zap.Int("bytes", len(result.Content)),
		zap.Bool("stopped_early", result.StoppedEarly))
}
