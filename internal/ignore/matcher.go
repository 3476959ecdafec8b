// Package ignore decides which paths under a traversal root are left out of an
// aggregation.
package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/agusx1211/copycode/internal/source"
)

// FileName is the ignore-pattern file read from the traversal root.
const FileName = ".gitignore"

// ConfigFileName is the per-project configuration file. It is never aggregated.
const ConfigFileName = ".copycode"

// Conventional lists the patterns excluded from every traversal: version control
// metadata, dependency and build output directories, editor settings, lockfiles
// and the tool's own control files.
var Conventional = []string{
	".git/",
	".hg/",
	".svn/",
	"node_modules/",
	"vendor/",
	"bower_components/",
	"dist/",
	"build/",
	"out/",
	"target/",
	"coverage/",
	".next/",
	"__pycache__/",
	".venv/",
	".idea/",
	".vscode/",
	".DS_Store",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"Cargo.lock",
	"poetry.lock",
	"composer.lock",
	"Gemfile.lock",
	"go.sum",
	FileName,
	ConfigFileName,
}

// Matcher holds a compiled rule set for a single traversal root.
type Matcher struct {
	gi *gitignore.GitIgnore
}

// New compiles the conventional excludes plus patterns.
func New(patterns ...string) *Matcher {
	lines := make([]string, 0, len(Conventional)+len(patterns))
	lines = append(lines, Conventional...)
	lines = append(lines, patterns...)
	return &Matcher{gi: gitignore.CompileIgnoreLines(lines...)}
}

// Load builds the matcher for root: the conventional excludes, extra, and the
// lines of root's ignore-pattern file. The returned matcher is always usable.
// A missing file contributes nothing; any other read failure also contributes
// nothing but is returned so the caller can report it.
func Load(root string, reader source.Reader, extra ...string) (*Matcher, error) {
	patterns := append([]string{}, extra...)

	path := filepath.Join(root, FileName)
	data, err := reader.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(patterns...), nil
		}
		return New(patterns...), fmt.Errorf("failed to read %s: %w", path, err)
	}
	patterns = append(patterns, splitLines(string(data))...)
	return New(patterns...), nil
}

// Ignores reports whether rel, a slash-separated path relative to the
// traversal root, is excluded. Directories should be passed with a trailing
// slash so directory-only patterns apply.
func (m *Matcher) Ignores(rel string) bool {
	if m == nil || m.gi == nil {
		return false
	}
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "./")
	if rel == "" || rel == "." {
		return false
	}
	return m.gi.MatchesPath(rel)
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}
