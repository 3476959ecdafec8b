// Package classify decides whether a path should be treated as binary content.
package classify

import (
	"path/filepath"
	"strings"
)

var binaryExtensions = map[string]struct{}{
	// images
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "bmp": {}, "ico": {}, "webp": {},
	"tif": {}, "tiff": {}, "psd": {}, "heic": {},
	// audio
	"mp3": {}, "wav": {}, "ogg": {}, "flac": {}, "aac": {}, "m4a": {},
	// video
	"mp4": {}, "mov": {}, "avi": {}, "mkv": {}, "webm": {}, "wmv": {}, "flv": {},
	// archives
	"zip": {}, "tar": {}, "gz": {}, "tgz": {}, "bz2": {}, "xz": {}, "7z": {}, "rar": {},
	"jar": {}, "war": {},
	// executables and objects
	"exe": {}, "dll": {}, "so": {}, "dylib": {}, "bin": {}, "o": {}, "a": {}, "obj": {},
	"class": {}, "pyc": {}, "wasm": {},
	// fonts
	"ttf": {}, "otf": {}, "woff": {}, "woff2": {}, "eot": {},
	// documents
	"pdf": {}, "doc": {}, "docx": {}, "xls": {}, "xlsx": {}, "ppt": {}, "pptx": {},
	// databases
	"db": {}, "sqlite": {}, "sqlite3": {},
	// .DS_Store
	"ds_store": {},
}

// IsBinary reports whether path names a file whose content should not be inlined.
// Only the name is inspected; the file is never opened.
func IsBinary(path string) bool {
	name := filepath.Base(path)
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return false
	}
	_, ok := binaryExtensions[strings.ToLower(name[idx+1:])]
	return ok
}
