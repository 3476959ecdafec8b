// Package source provides the file-system and editor collaborators used while
// aggregating content.
package source

import (
	"fmt"
	"os"
	"path/filepath"
)

// Kind classifies a directory entry.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
	// KindOther covers devices, sockets and symlinks that do not resolve.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "other"
	}
}

// Entry is a single child of a listed directory.
type Entry struct {
	Name string
	Kind Kind
}

// Lister enumerates the immediate children of a directory.
type Lister interface {
	List(dir string) ([]Entry, error)
}

// Reader returns the raw bytes of a file.
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// FileSystem is the combination the aggregation engine needs.
type FileSystem interface {
	Lister
	Reader
}

// Documents looks up the language tag of a document currently open in an editor.
type Documents interface {
	LanguageOf(path string) (string, bool)
}

// Identifier reports a stable identity for a directory, equal for every path
// that reaches it. Walkers use it to detect symlink cycles.
type Identifier interface {
	Identity(dir string) (string, error)
}

// OS is a FileSystem backed by the host operating system.
type OS struct{}

// List returns the entries of dir in the order os.ReadDir reports them.
// Symlinks are followed so a link to a directory is listed as a directory.
func (OS) List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		mode := de.Type()
		if mode&os.ModeSymlink != 0 {
			info, err := os.Stat(filepath.Join(dir, de.Name()))
			if err != nil {
				entries = append(entries, Entry{Name: de.Name(), Kind: KindOther})
				continue
			}
			mode = info.Mode().Type()
		}
		entries = append(entries, Entry{Name: de.Name(), Kind: kindOf(mode)})
	}
	return entries, nil
}

// ReadFile reads path in full.
func (OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Identity resolves every symlink in dir and returns the absolute result.
func (OS) Identity(dir string) (string, error) {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

func kindOf(mode os.FileMode) Kind {
	switch {
	case mode.IsDir():
		return KindDirectory
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

// Canonical returns the absolute, cleaned form of path. It is the key used for
// open-document lookups.
func Canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// DocumentMap is a Documents implementation keyed by canonical path.
type DocumentMap map[string]string

// Set records the language tag for path.
func (m DocumentMap) Set(path, language string) {
	m[Canonical(path)] = language
}

// LanguageOf implements Documents.
func (m DocumentMap) LanguageOf(path string) (string, bool) {
	lang, ok := m[Canonical(path)]
	if !ok || lang == "" {
		return "", false
	}
	return lang, true
}

// ParseDocumentOverride parses a PATH=LANGUAGE pair.
func ParseDocumentOverride(raw string) (path string, language string, err error) {
	for i := len(raw) - 1; i >= 0; i-- {
		if raw[i] != '=' {
			continue
		}
		path, language = raw[:i], raw[i+1:]
		if path == "" || language == "" {
			break
		}
		return path, language, nil
	}
	return "", "", fmt.Errorf("invalid language override %q (expected PATH=LANGUAGE)", raw)
}
