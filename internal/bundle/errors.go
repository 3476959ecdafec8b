package bundle

import (
	"errors"
	"fmt"
)

// Kind identifies why a file could not be aggregated.
type Kind int

// Failure kinds carried by FileError.
const (
	KindNotFound Kind = iota + 1
	KindDirectoryRead
	KindRead
	KindDecode
)

// Sentinels matched by errors.Is. ErrNotFound through ErrDecode correspond to a
// Kind; ErrDepthExceeded and ErrCycle are wrapped by a KindDirectoryRead error
// for the subtree that was skipped.
var (
	ErrNotFound      = errors.New("file not found")
	ErrDirectoryRead = errors.New("directory could not be listed")
	ErrRead          = errors.New("file could not be read")
	ErrDecode        = errors.New("file is not valid UTF-8")
	ErrDepthExceeded = errors.New("maximum directory depth exceeded")
	ErrCycle         = errors.New("directory is its own ancestor")
)

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindDirectoryRead:
		return ErrDirectoryRead
	case KindRead:
		return ErrRead
	case KindDecode:
		return ErrDecode
	default:
		return nil
	}
}

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindDirectoryRead:
		return "directory read failure"
	case KindRead:
		return "read failure"
	case KindDecode:
		return "decode failure"
	default:
		return "unknown"
	}
}

// FileError reports a failure tied to a specific path.
type FileError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a FileError against the sentinel for its kind.
func (e *FileError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}
