// Package syntax picks the language tag used on a fenced code block.
package syntax

import (
	"path/filepath"
	"strings"

	"github.com/agusx1211/copycode/internal/source"
)

// PlainText is the tag used when nothing better is known.
const PlainText = "plaintext"

// Resolve returns the language tag for path. An open document's language wins,
// then the lower-cased file extension, then PlainText.
func Resolve(path string, documents source.Documents) string {
	if documents != nil {
		if lang, ok := documents.LanguageOf(source.Canonical(path)); ok {
			return lang
		}
	}
	if ext := Extension(path); ext != "" {
		return ext
	}
	return PlainText
}

// Extension returns the lower-cased extension of path without its leading dot.
// Names whose only dot is the first character (".gitignore") have no extension.
func Extension(path string) string {
	name := filepath.Base(path)
	idx := strings.LastIndex(name, ".")
	if idx <= 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}
