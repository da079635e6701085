// Package archive builds Walk and Extract abstractions on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"iter"
	"path"
	"strings"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to Walk
// The file argument is the zip.File structure for file in archive which satisfies
// match condition. If an error is returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk walks the all files in the archive with names starting with pattern,
// calling walkFn for each item. Archives with path traversal components ("..")
// or absolute paths in entry names are rejected to prevent Zip Slip attacks.
func Walk(archive, pattern string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for f, err := range files(&r.Reader, pattern) {
		if err != nil {
			return err
		}
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// files yields regular files with names starting with prefix, first unsafe
// name is yielded as an error and stops iteration.
func files(r *zip.Reader, prefix string) iter.Seq2[*zip.File, error] {
	return func(yield func(*zip.File, error) bool) {
		for _, f := range r.File {
			name := f.FileHeader.Name
			if !isSafePath(name) {
				yield(nil, fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name))
				return
			}
			if f.FileInfo().IsDir() || !strings.HasPrefix(name, prefix) {
				continue
			}
			if !yield(f, nil) {
				return
			}
		}
	}
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
