package config

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReportClose_RemovesWorkDirs(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "report.zip")
	r, err := (&ReporterConfig{Destination: dst}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	work := t.TempDir()
	if err := os.WriteFile(filepath.Join(work, "debug.txt"), []byte("test"), 0644); err != nil {
		t.Fatal(err)
	}
	kept := t.TempDir()
	if err := os.WriteFile(filepath.Join(kept, "source.xml"), []byte("<document/>"), 0644); err != nil {
		t.Fatal(err)
	}
	result := filepath.Join(t.TempDir(), "result.docx")
	if err := os.WriteFile(result, []byte("docx"), 0644); err != nil {
		t.Fatal(err)
	}

	r.StoreWorkDir("workdir-1", work)
	r.Store("sources", kept)
	r.Store("result-file", result)
	r.Store("missing", filepath.Join(t.TempDir(), "nothing"))

	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	if _, err := os.Stat(work); !os.IsNotExist(err) {
		t.Errorf("work directory should be removed")
	}
	if _, err := os.Stat(kept); err != nil {
		t.Errorf("stored directory should not be removed: %v", err)
	}
	if _, err := os.Stat(result); err != nil {
		t.Errorf("stored file should not be removed: %v", err)
	}

	zr, err := zip.OpenReader(dst)
	if err != nil {
		t.Fatalf("report is not a zip archive: %v", err)
	}
	defer zr.Close()
	got := map[string]bool{}
	for _, f := range zr.File {
		got[f.Name] = true
	}
	for _, name := range []string{"MANIFEST", "workdir-1/debug.txt", "sources/source.xml", "result-file"} {
		if !got[name] {
			t.Errorf("report has no %s, entries %v", name, got)
		}
	}
	if got["missing"] {
		t.Error("absent path is archived")
	}
}

func TestReportStore_Twice(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("file", "/tmp/a")
	// same path again is fine
	r.Store("file", "/tmp/a")

	defer func() {
		if recover() == nil {
			t.Error("expected panic for different path under the same name")
		}
	}()
	r.Store("file", "/tmp/b")
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}

func TestReportManifestOrder(t *testing.T) {
	entries := map[string]entry{
		"file-10": {source: "a", path: "/w/a"},
		"file-2":  {source: "b", path: "/w/b"},
		"config":  {data: []byte("x")},
	}
	names, manifest := prepareManifest(entries)
	want := []string{"config", "file-2", "file-10"}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("names[%d] = %q, want %q", i, names[i], name)
		}
	}
	if got := strings.Count(manifest.String(), "\n"); got != 3 {
		t.Errorf("manifest lines = %d, want 3", got)
	}
	if !strings.Contains(manifest.String(), "\tfile-2\tb : /w/b\n") || !strings.Contains(manifest.String(), "\tconfig\t<data>\n") {
		t.Errorf("manifest = %q", manifest.String())
	}
}

func TestReportStoreData(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "report.zip")
	r, err := (&ReporterConfig{Destination: dst}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	r.StoreData("config.yaml", []byte("version: 1\n"))
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	zr, err := zip.OpenReader(dst)
	if err != nil {
		t.Fatalf("report is not a zip archive: %v", err)
	}
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	if len(names) != 2 || names[0] != "MANIFEST" || names[1] != "config.yaml" {
		t.Errorf("report entries = %v", names)
	}
}
