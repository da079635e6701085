package inspect

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"dxw/convert/docx"
	"dxw/convert/model"
)

func produce(t *testing.T) []byte {
	t.Helper()
	d, err := docx.New(nil, docx.Options{}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d.Heading([]model.Fragment{model.Plain("Chapter 1")}, 1)
	d.Paragraph([]model.Fragment{model.Plain("Body")}, "", 0)
	d.Heading([]model.Fragment{model.Plain("Details")}, 2)
	d.Paragraph([]model.Fragment{model.Plain("More")}, "", 0)
	d.Table([][]string{{"a", "b"}, {"c", "d"}})

	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return buf.Bytes()
}

func TestRead(t *testing.T) {
	data := produce(t)
	s, err := Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if s.Paragraphs != 4 {
		t.Errorf("Paragraphs = %d, want 4", s.Paragraphs)
	}
	if s.Tables != 1 {
		t.Errorf("Tables = %d, want 1", s.Tables)
	}
	if s.Styles["Heading1"] != 1 || s.Styles["Heading2"] != 1 {
		t.Errorf("Styles = %v", s.Styles)
	}
	want := []Heading{{1, "Chapter 1"}, {2, "Details"}}
	if len(s.Headings) != len(want) {
		t.Fatalf("Headings = %v, want %v", s.Headings, want)
	}
	for i := range want {
		if s.Headings[i] != want[i] {
			t.Errorf("Headings[%d] = %v, want %v", i, s.Headings[i], want[i])
		}
	}
}

func TestRead_NotDocx(t *testing.T) {
	data := []byte("definitely not a zip")
	if _, err := Read(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Error("Expected error for broken package")
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"heading 3", 3},
		{"Heading9", 9},
		{"Heading10", 0},
		{"HeadingX", 0},
		{"Title", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := headingLevel(tt.style); got != tt.want {
			t.Errorf("headingLevel(%q) = %d, want %d", tt.style, got, tt.want)
		}
	}
}

func TestSummaryWrite(t *testing.T) {
	s := &Summary{
		Paragraphs: 3,
		Styles:     map[string]int{"Heading10": 1, "Heading2": 2, "BodyText": 1},
		Headings:   []Heading{{1, "Top"}, {2, "Nested"}},
	}
	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Paragraphs: 3\nTables: 0\nStyles: 3\n") {
		t.Errorf("header is wrong:\n%s", out)
	}
	// natural order puts Heading2 before Heading10
	if strings.Index(out, "Heading2:") > strings.Index(out, "Heading10:") {
		t.Errorf("styles are not sorted naturally:\n%s", out)
	}
	if !strings.Contains(out, "Outline:\n  Top\n    Nested\n") {
		t.Errorf("outline is wrong:\n%s", out)
	}
}
