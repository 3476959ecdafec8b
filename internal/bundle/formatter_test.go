package bundle

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agusx1211/copycode/internal/source"
)

func TestFormatTextFile(t *testing.T) {
	mem := newMemFS()
	mem.addFile("/w/src/a.ts", "let a = 1;")

	got, err := Formatter{Reader: mem}.Format(filepath.Clean("/w/src/a.ts"), filepath.Clean("/w"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "File: src/a.ts\n\n```ts\nlet a = 1;\n```\n"
	if got != want {
		t.Fatalf("unexpected entry:\n%q\nwant\n%q", got, want)
	}
}

func TestFormatUsesOpenDocumentLanguage(t *testing.T) {
	mem := newMemFS()
	path := filepath.Clean("/w/App.js")
	mem.addFile(path, "export default 1")
	docs := source.DocumentMap{}
	docs.Set(path, "javascriptreact")

	got, err := Formatter{Reader: mem, Documents: docs}.Format(path, filepath.Clean("/w"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "```javascriptreact\n") {
		t.Fatalf("expected open document language, got %q", got)
	}
}

func TestFormatNoExtensionIsPlaintext(t *testing.T) {
	mem := newMemFS()
	mem.addFile("/w/Makefile", "all:")

	got, err := Formatter{Reader: mem}.Format(filepath.Clean("/w/Makefile"), filepath.Clean("/w"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "File: Makefile\n\n```plaintext\nall:\n```\n" {
		t.Fatalf("unexpected entry %q", got)
	}
}

func TestFormatBinaryIsNotRead(t *testing.T) {
	mem := newMemFS()
	mem.addFile("/w/img/logo.PNG", "\x89PNG")

	got, err := Formatter{Reader: mem}.Format(filepath.Clean("/w/img/logo.PNG"), filepath.Clean("/w"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "File: img/logo.PNG\n" {
		t.Fatalf("unexpected binary stub %q", got)
	}
	if mem.readCount() != 0 {
		t.Fatalf("binary file must not be read")
	}
}

func TestFormatErrors(t *testing.T) {
	mem := newMemFS()
	mem.addFile("/w/latin1.txt", "caf\xe9")
	mem.addFile("/w/locked.txt", "secret")
	mem.readErr[filepath.Clean("/w/locked.txt")] = errors.New("permission denied")
	f := Formatter{Reader: mem}
	root := filepath.Clean("/w")

	cases := []struct {
		path string
		want error
	}{
		{"/w/missing.txt", ErrNotFound},
		{"/w/latin1.txt", ErrDecode},
		{"/w/locked.txt", ErrRead},
	}
	for _, tc := range cases {
		path := filepath.Clean(tc.path)
		_, err := f.Format(path, root)
		if !errors.Is(err, tc.want) {
			t.Fatalf("Format(%s) error = %v, want %v", path, err, tc.want)
		}
		var fileErr *FileError
		if !errors.As(err, &fileErr) || fileErr.Path != path {
			t.Fatalf("expected error to name %s, got %v", path, err)
		}
		if !strings.Contains(err.Error(), path) {
			t.Fatalf("error message should mention the file: %v", err)
		}
	}
}

func TestDisplayPath(t *testing.T) {
	root := filepath.Clean("/w/project")
	cases := []struct {
		path string
		root string
		want string
	}{
		{"/w/project/src/main.go", root, "src/main.go"},
		{"/w/project/main.go", root, "main.go"},
		{"/w/other/util.go", root, "util.go"},
		{"/w/project/main.go", "", "main.go"},
	}
	for _, tc := range cases {
		if got := DisplayPath(filepath.Clean(tc.path), tc.root); got != tc.want {
			t.Fatalf("DisplayPath(%q, %q) = %q, want %q", tc.path, tc.root, got, tc.want)
		}
	}
}
