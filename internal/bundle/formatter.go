package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/agusx1211/copycode/internal/classify"
	"github.com/agusx1211/copycode/internal/source"
	"github.com/agusx1211/copycode/internal/syntax"
)

// Formatter renders a single file as an aggregation entry.
type Formatter struct {
	Reader    source.Reader
	Documents source.Documents
}

// Format renders path. Binary files become a header line only and are never
// read. Text files become a header followed by a fenced block tagged with the
// resolved language.
func (f Formatter) Format(path, displayRoot string) (string, error) {
	rel := DisplayPath(path, displayRoot)
	if classify.IsBinary(path) {
		return fmt.Sprintf("File: %s\n", rel), nil
	}

	data, err := f.Reader.ReadFile(path)
	if err != nil {
		kind := KindRead
		if errors.Is(err, fs.ErrNotExist) {
			kind = KindNotFound
		}
		return "", &FileError{Kind: kind, Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return "", &FileError{Kind: KindDecode, Path: path}
	}

	lang := syntax.Resolve(path, f.Documents)
	return fmt.Sprintf("File: %s\n\n```%s\n%s\n```\n", rel, lang, data), nil
}

// DisplayPath returns path relative to root using forward slashes. When root is
// empty or path lies outside it, the bare file name is used.
func DisplayPath(path, root string) string {
	if root == "" {
		return filepath.Base(path)
	}
	if filepath.IsAbs(path) != filepath.IsAbs(root) {
		path, root = source.Canonical(path), source.Canonical(root)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return filepath.Base(path)
	}
	return rel
}
