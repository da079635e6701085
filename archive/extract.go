package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Extract writes files from archive with names starting with prefix into dir
// keeping their relative paths. When accept is not nil only files it approves
// are written. Returns number of extracted files.
func Extract(archive, prefix, dir string, accept func(*zip.File) bool) (int, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	count := 0
	for f, err := range files(&r.Reader, prefix) {
		if err != nil {
			return count, err
		}
		if accept != nil && !accept(f) {
			continue
		}
		if err := extractFile(f, filepath.Join(dir, filepath.FromSlash(f.Name))); err != nil {
			return count, fmt.Errorf("unable to extract %q: %w", f.Name, err)
		}
		count++
	}
	return count, nil
}

func extractFile(f *zip.File, target string) (err error) {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, rc)
	return err
}
