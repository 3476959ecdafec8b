package bundle

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/agusx1211/copycode/internal/source"
)

// memFS is an in-memory source.FileSystem. Entries are listed in insertion
// order.
type memFS struct {
	mu      sync.Mutex
	dirs    map[string][]source.Entry
	files   map[string][]byte
	listErr map[string]error
	readErr map[string]error
	listed  []string
	reads   []string
}

func newMemFS() *memFS {
	return &memFS{
		dirs:    map[string][]source.Entry{},
		files:   map[string][]byte{},
		listErr: map[string]error{},
		readErr: map[string]error{},
	}
}

func (m *memFS) addDir(path string) {
	path = filepath.Clean(path)
	if _, ok := m.dirs[path]; ok {
		return
	}
	m.dirs[path] = nil
	parent := filepath.Dir(path)
	if parent == path {
		return
	}
	m.addDir(parent)
	m.dirs[parent] = append(m.dirs[parent], source.Entry{Name: filepath.Base(path), Kind: source.KindDirectory})
}

func (m *memFS) addFile(path, content string) {
	path = filepath.Clean(path)
	parent := filepath.Dir(path)
	m.addDir(parent)
	m.files[path] = []byte(content)
	m.dirs[parent] = append(m.dirs[parent], source.Entry{Name: filepath.Base(path), Kind: source.KindFile})
}

func (m *memFS) List(dir string) ([]source.Entry, error) {
	dir = filepath.Clean(dir)
	m.mu.Lock()
	m.listed = append(m.listed, dir)
	m.mu.Unlock()
	if err, ok := m.listErr[dir]; ok {
		return nil, err
	}
	entries, ok := m.dirs[dir]
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: fs.ErrNotExist}
	}
	return append([]source.Entry{}, entries...), nil
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	path = filepath.Clean(path)
	m.mu.Lock()
	m.reads = append(m.reads, path)
	m.mu.Unlock()
	if err, ok := m.readErr[path]; ok {
		return nil, err
	}
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return data, nil
}

func (m *memFS) wasListed(dir string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.listed {
		if d == filepath.Clean(dir) {
			return true
		}
	}
	return false
}

func (m *memFS) readCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reads)
}

// countingFormatter produces fixed-size entries and records calls.
type countingFormatter struct {
	size  int
	calls int
	fail  map[string]error
}

func (c *countingFormatter) Format(path, _ string) (string, error) {
	c.calls++
	if err, ok := c.fail[path]; ok {
		return "", err
	}
	entry := fmt.Sprintf("%s:", path)
	for len(entry) < c.size {
		entry += "x"
	}
	return entry[:c.size], nil
}
