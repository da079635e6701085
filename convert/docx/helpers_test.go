package docx

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"go.uber.org/zap/zaptest"
)

func newTestDocument(t *testing.T, template []byte) *Document {
	t.Helper()
	d, err := New(template, Options{}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

// output is written package opened for inspection.
type output struct {
	order []string
	files map[string][]byte
}

func render(t *testing.T, d *Document) *output {
	t.Helper()
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return readOutput(t, buf.Bytes())
}

func readOutput(t *testing.T, data []byte) *output {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}
	out := &output{files: make(map[string][]byte)}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		out.order = append(out.order, f.Name)
		out.files[f.Name] = content
	}
	return out
}

func (o *output) xml(t *testing.T, name string) *etree.Document {
	t.Helper()
	data, ok := o.files[name]
	if !ok {
		t.Fatalf("part %s is missing, have %v", name, o.order)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return doc
}

// body returns child elements of document body without final section.
func (o *output) body(t *testing.T) []*etree.Element {
	t.Helper()
	body := o.xml(t, partDocument).Root().SelectElement("w:body")
	if body == nil {
		t.Fatal("document has no body")
	}
	var els []*etree.Element
	for _, el := range body.ChildElements() {
		if el.Tag != "sectPr" {
			els = append(els, el)
		}
	}
	return els
}

func paragraphText(p *etree.Element) string {
	var sb strings.Builder
	for _, t := range p.FindElements(".//w:t") {
		sb.WriteString(t.Text())
	}
	return sb.String()
}

func pStyle(p *etree.Element) string {
	if el := p.FindElement("./w:pPr/w:pStyle"); el != nil {
		return el.SelectAttrValue("w:val", "")
	}
	return ""
}

func attr(t *testing.T, el *etree.Element, path, key string) string {
	t.Helper()
	found := el.FindElement(path)
	if found == nil {
		t.Fatalf("%s not found in %s", path, el.Tag)
	}
	return found.SelectAttrValue(key, "")
}

// hasChild reports whether el has child tag with attribute key set to value.
func hasChild(el *etree.Element, tag, key, value string) bool {
	for _, c := range el.SelectElements(tag) {
		if c.SelectAttrValue(key, "") == value {
			return true
		}
	}
	return false
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	file := filepath.Join(dir, name)
	if err := os.WriteFile(file, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write png: %v", err)
	}
	return file
}

// makeTemplate builds template archive from parts.
func makeTemplate(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close template: %v", err)
	}
	return buf.Bytes()
}
