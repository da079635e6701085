package archive

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

type entry struct {
	name    string
	content string
}

// makeZip creates archive with given entries, names ending with "/" become
// directories.
func makeZip(t *testing.T, entries ...entry) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.content)); err != nil {
			t.Fatalf("Failed to write %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return zipPath
}

func visit(t *testing.T, zipPath, prefix string) []string {
	t.Helper()
	var visited []string
	err := Walk(zipPath, prefix, func(archive string, file *zip.File) error {
		if archive != zipPath {
			t.Errorf("archive = %s, want %s", archive, zipPath)
		}
		visited = append(visited, file.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	return visited
}

func TestWalk(t *testing.T) {
	zipPath := makeZip(t,
		entry{"docs/index.xml", "index"},
		entry{"docs/img/logo.png", "png"},
		entry{"docs/", ""},
		entry{"src/guide.md", "guide"},
		entry{"conf.py", "conf"},
	)

	tests := []struct {
		prefix string
		want   []string
	}{
		{"docs/", []string{"docs/index.xml", "docs/img/logo.png"}},
		{"src/", []string{"src/guide.md"}},
		{"nonexistent/", nil},
		{"", []string{"docs/index.xml", "docs/img/logo.png", "src/guide.md", "conf.py"}},
		// prefix matching is case-sensitive
		{"Docs/", nil},
	}
	for _, tt := range tests {
		t.Run("prefix "+tt.prefix, func(t *testing.T) {
			if got := visit(t, zipPath, tt.prefix); !slices.Equal(got, tt.want) {
				t.Errorf("visited %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	zipPath := makeZip(t, entry{"a.md", "a"}, entry{"b.md", "b"}, entry{"c.md", "c"})

	var visited int
	stopErr := errors.New("stop walking")
	err := Walk(zipPath, "", func(archive string, file *zip.File) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})
	if err != stopErr {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}
	if visited != 2 {
		t.Errorf("visited %d files, want 2 (early termination)", visited)
	}
}

func TestWalk_FileContent(t *testing.T) {
	zipPath := makeZip(t, entry{"index.xml", "<document/>"})

	err := Walk(zipPath, "", func(archive string, file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		if string(data) != "<document/>" {
			t.Errorf("content = %s", data)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}

func TestWalk_UnsafePath(t *testing.T) {
	zipPath := makeZip(t, entry{"ok.md", "ok"}, entry{"../escape.md", "bad"})

	err := Walk(zipPath, "", func(archive string, file *zip.File) error { return nil })
	if err == nil {
		t.Error("Expected error for path traversal entry")
	}
}

func TestWalk_InvalidArchive(t *testing.T) {
	noop := func(archive string, file *zip.File) error { return nil }

	if err := Walk("/nonexistent/file.zip", "", noop); err == nil {
		t.Error("Expected error for nonexistent file")
	}

	invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
	if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
		t.Fatalf("Failed to create invalid zip: %v", err)
	}
	if err := Walk(invalidZip, "", noop); err == nil {
		t.Error("Expected error for invalid zip file")
	}
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"docs/index.xml", true},
		{"a..b/c", true},
		{"/etc/passwd", false},
		{`\windows\file`, false},
		{"docs/../../x", false},
		{`docs\..\x`, false},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
