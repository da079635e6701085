package state

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"time"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}

// LoadTemplate reads configured style template. Empty path keeps built-in
// template.
func (e *LocalEnv) LoadTemplate(path string) error {
	if path == "" {
		e.Template = nil
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read style template: %w", err)
	}
	// make sure this is at least an archive
	if _, err := zip.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		return fmt.Errorf("style template %s is not a docx file: %w", path, err)
	}
	e.Template = data
	e.Rpt.Store("template.docx", path)
	return nil
}
