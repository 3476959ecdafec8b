package bundle

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agusx1211/copycode/internal/ignore"
	"github.com/agusx1211/copycode/internal/source"
)

const (
	DefaultConcurrency = 8
	DefaultMaxDepth    = 64
)

// WalkOptions tunes a traversal. Zero values select the defaults.
type WalkOptions struct {
	Selector    *ignore.Selector
	Concurrency int
	MaxDepth    int
	Logger      *zap.Logger
}

// Listing is the outcome of a traversal.
type Listing struct {
	// Files holds the eligible files in listing order.
	Files []string
	// Skipped combines the failures of nested directories whose subtrees were
	// left out. It is nil when every directory could be listed.
	Skipped error
}

type walker struct {
	lister  source.Lister
	root    string
	matcher *ignore.Matcher
	opts    WalkOptions
	sem     chan struct{}
}

// Walk collects the files under dir that matcher does not exclude. Paths
// handed to the matcher are relative to root, which is normally dir itself.
// Failing to list dir is returned as an error; failing to list a nested
// directory only drops that subtree and is reported in Listing.Skipped.
// When lister implements source.Identifier, a directory that is already one
// of its own ancestors (a symlink cycle) is skipped and reported as ErrCycle.
func Walk(ctx context.Context, lister source.Lister, dir, root string, matcher *ignore.Matcher, opts WalkOptions) (*Listing, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	w := &walker{
		lister:  lister,
		root:    root,
		matcher: matcher,
		opts:    opts,
		sem:     make(chan struct{}, opts.Concurrency),
	}

	entries, err := lister.List(dir)
	if err != nil {
		kind := KindDirectoryRead
		if errors.Is(err, fs.ErrNotExist) {
			kind = KindNotFound
		}
		return nil, &FileError{Kind: kind, Path: dir, Err: err}
	}
	var chain *ancestor
	if id, ok := w.identity(dir); ok {
		chain = &ancestor{id: id}
	}
	files, skipped := w.collect(ctx, dir, entries, 0, chain)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Listing{Files: files, Skipped: skipped}, nil
}

// ancestor is one link of the chain of directories entered on the way down.
type ancestor struct {
	id     string
	parent *ancestor
}

func (a *ancestor) contains(id string) bool {
	for ; a != nil; a = a.parent {
		if a.id == id {
			return true
		}
	}
	return false
}

// identity returns the stable identity of dir when the lister can provide one.
func (w *walker) identity(dir string) (string, bool) {
	ider, ok := w.lister.(source.Identifier)
	if !ok {
		return "", false
	}
	id, err := ider.Identity(dir)
	if err != nil {
		return "", false
	}
	return id, true
}

func (w *walker) descend(ctx context.Context, dir string, depth int, chain *ancestor) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if depth > w.opts.MaxDepth {
		return nil, &FileError{Kind: KindDirectoryRead, Path: dir, Err: ErrDepthExceeded}
	}
	if id, ok := w.identity(dir); ok {
		if chain.contains(id) {
			return nil, &FileError{Kind: KindDirectoryRead, Path: dir, Err: ErrCycle}
		}
		chain = &ancestor{id: id, parent: chain}
	}

	w.sem <- struct{}{}
	entries, err := w.lister.List(dir)
	<-w.sem
	if err != nil {
		return nil, &FileError{Kind: KindDirectoryRead, Path: dir, Err: err}
	}
	return w.collect(ctx, dir, entries, depth, chain)
}

// collect resolves the entries of dir. Subdirectories are walked concurrently
// but their files are spliced back in at the subdirectory's position.
func (w *walker) collect(ctx context.Context, dir string, entries []source.Entry, depth int, chain *ancestor) ([]string, error) {
	type slot struct {
		files []string
		err   error
	}
	slots := make([]slot, len(entries))

	var g errgroup.Group
	for i, entry := range entries {
		child := filepath.Join(dir, entry.Name)
		rel := w.rel(child)

		switch entry.Kind {
		case source.KindDirectory:
			if w.matcher.Ignores(rel + "/") {
				w.opts.Logger.Debug("skipping ignored directory", zap.String("path", rel))
				continue
			}
			i := i
			g.Go(func() error {
				slots[i].files, slots[i].err = w.descend(ctx, child, depth+1, chain)
				return nil
			})
		case source.KindFile:
			if w.matcher.Ignores(rel) {
				w.opts.Logger.Debug("skipping ignored file", zap.String("path", rel))
				continue
			}
			if !w.opts.Selector.Selects(rel) {
				continue
			}
			slots[i].files = []string{child}
		default:
			w.opts.Logger.Debug("skipping special entry", zap.String("path", rel), zap.Stringer("kind", entry.Kind))
		}
	}
	_ = g.Wait()

	var files []string
	var skipped error
	for _, s := range slots {
		files = append(files, s.files...)
		skipped = multierr.Append(skipped, s.err)
	}
	return files, skipped
}

func (w *walker) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
