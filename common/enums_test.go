package common

import (
	"errors"
	"testing"
)

func TestOrientationText(t *testing.T) {
	var o Orientation
	if err := o.UnmarshalText([]byte("landscape")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if o != OrientationLandscape {
		t.Errorf("orientation = %v, want landscape", o)
	}
	if err := o.UnmarshalText([]byte("sideways")); !errors.Is(err, ErrInvalidOrientation) {
		t.Errorf("UnmarshalText() error = %v, want ErrInvalidOrientation", err)
	}
	if !OrientationLandscape.Swap(false) || OrientationLandscape.Swap(true) || OrientationPortrait.Swap(false) {
		t.Error("unexpected Swap() result")
	}
}

func TestInputFmt(t *testing.T) {
	for _, name := range InputFmtNames() {
		f, err := ParseInputFmt(name)
		if err != nil {
			t.Fatalf("ParseInputFmt(%q) error = %v", name, err)
		}
		if f.String() != name {
			t.Errorf("String() = %q, want %q", f.String(), name)
		}
	}
	if len(InputFmtAuto.Exts()) != 0 || InputFmtMarkdown.Exts()[0] != ".md" {
		t.Error("unexpected extensions")
	}
}

func TestDetectInputFmt(t *testing.T) {
	tests := map[string]InputFmt{
		"guide.xml":         InputFmtDoctree,
		"dir/index.DOCTREE": InputFmtDoctree,
		"README.md":         InputFmtMarkdown,
		"notes.markdown":    InputFmtMarkdown,
		"book.fb2":          InputFmtAuto,
		"noext":             InputFmtAuto,
	}
	for name, want := range tests {
		if got := DetectInputFmt(name); got != want {
			t.Errorf("DetectInputFmt(%q) = %v, want %v", name, got, want)
		}
	}
}
