package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/maruel/natural"
	"go.uber.org/multierr"

	"dxw/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report. When destination cannot be created report
// goes to the temporary directory.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{entries: make(map[string]entry), file: f}, nil
}

type entry struct {
	// source is path as it was given, path is its absolute form
	source string
	path   string
	stamp  time.Time
	data   []byte
	// remove path after report is written
	remove bool
}

// Report collects files, directories and data for the debug archive. Nil
// report is valid and ignores everything. Not safe for concurrent use.
type Report struct {
	entries map[string]entry
	file    *os.File
}

// Name returns absolute name of the report archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

func (r *Report) add(name string, e entry) {
	if old, exists := r.entries[name]; exists && (len(e.data) > 0 || old.source != e.source) {
		panic(fmt.Sprintf("report entry [%s] stored twice", name))
	}
	r.entries[name] = e
}

func pathEntry(path string, remove bool) entry {
	e := entry{source: path, path: path, remove: remove}
	if p, err := filepath.Abs(path); err == nil {
		e.path = p
	}
	return e
}

// Store records file or directory to be archived on Close. Content is read
// at that time, absent paths are skipped.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	r.add(name, pathEntry(path, false))
}

// StoreWorkDir records temporary directory which is archived and then
// removed on Close.
func (r *Report) StoreWorkDir(name, dir string) {
	if r == nil {
		return
	}
	r.add(name, pathEntry(dir, true))
}

// StoreData records data to be archived as file name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	r.add(name, entry{data: data, stamp: time.Now()})
}

// Close writes report archive and removes stored work directories.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.write()
	err = multierr.Append(err, r.file.Close())
	for _, name := range slices.Sorted(maps.Keys(r.entries)) {
		if e := r.entries[name]; e.remove {
			err = multierr.Append(err, os.RemoveAll(e.path))
		}
	}
	return err
}

func (r *Report) write() (err error) {
	arc := zip.NewWriter(r.file)
	defer func() {
		err = multierr.Append(err, arc.Close())
	}()

	names, manifest := prepareManifest(r.entries)
	if err := addFile(arc, "MANIFEST", time.Now(), manifest); err != nil {
		return err
	}
	for _, name := range names {
		if err := addEntry(arc, name, r.entries[name]); err != nil {
			return fmt.Errorf("report entry [%s]: %w", name, err)
		}
	}
	return nil
}

// prepareManifest returns entry names in natural order and manifest listing
// them.
func prepareManifest(entries map[string]entry) ([]string, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	if len(entries) == 0 {
		return nil, buf
	}

	names := slices.SortedFunc(maps.Keys(entries), func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})

	now := time.Now()
	for _, name := range names {
		e := entries[name]
		stamp := e.stamp
		if stamp.IsZero() {
			stamp = now
		}
		src := "<data>"
		if len(e.data) == 0 {
			src = e.source + " : " + e.path
		}
		fmt.Fprintf(buf, "%s\t%s\t%s\n", stamp.UTC().Format(time.UnixDate), name, src)
	}
	return names, buf
}

func addEntry(arc *zip.Writer, name string, e entry) error {
	if len(e.data) > 0 {
		return addFile(arc, name, e.stamp, bytes.NewReader(e.data))
	}
	info, err := os.Stat(e.path)
	if err != nil {
		// gone by now
		return nil
	}
	switch {
	case info.Mode().IsRegular():
		return addPath(arc, name, e.path, info.ModTime())
	case info.IsDir():
		return addDir(arc, name, e.path)
	}
	return nil
}

func addFile(arc *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

func addPath(arc *zip.Writer, name, path string, t time.Time) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return addFile(arc, name, t, f)
}

// addDir archives regular files of dir under name, links and other special
// files are ignored.
func addDir(arc *zip.Writer, name, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		return addPath(arc, filepath.ToSlash(filepath.Join(name, rel)), path, info.ModTime())
	})
}
