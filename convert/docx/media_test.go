package docx

import (
	"strconv"
	"strings"
	"testing"

	"dxw/common"
)

func TestPicture(t *testing.T) {
	dir := t.TempDir()
	file := writePNG(t, dir, "pic.png", 20, 10)

	d := newTestDocument(t, nil)
	if err := d.Picture(file, "A caption", 100, 50); err != nil {
		t.Fatalf("Picture: %v", err)
	}
	if err := d.Picture(file, "", 60, 30); err != nil {
		t.Fatalf("Picture: %v", err)
	}

	out := render(t, d)
	body := out.body(t)
	if len(body) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(body))
	}
	if pStyle(body[0]) != stylePicture || pStyle(body[1]) != "ImageCaption" || pStyle(body[2]) != stylePicture {
		t.Errorf("styles = %s, %s, %s", pStyle(body[0]), pStyle(body[1]), pStyle(body[2]))
	}
	if got := paragraphText(body[1]); got != "A caption" {
		t.Errorf("caption = %q", got)
	}

	ext := body[0].FindElement(".//wp:extent")
	if ext == nil {
		t.Fatal("drawing has no extent")
	}
	if ext.SelectAttrValue("cx", "") != strconv.Itoa(100*emuPerPoint) || ext.SelectAttrValue("cy", "") != strconv.Itoa(50*emuPerPoint) {
		t.Errorf("extent = %sx%s", ext.SelectAttrValue("cx", ""), ext.SelectAttrValue("cy", ""))
	}

	var media []string
	for _, name := range out.order {
		if strings.HasPrefix(name, mediaDir+"/") {
			media = append(media, name)
		}
	}
	if len(media) != 1 || media[0] != mediaDir+"/image1.png" {
		t.Fatalf("media parts = %v", media)
	}

	first := attr(t, body[0], ".//a:blip", "r:embed")
	second := attr(t, body[2], ".//a:blip", "r:embed")
	if first != second {
		t.Errorf("same file embedded twice: %s, %s", first, second)
	}
	var target string
	for _, rel := range out.xml(t, partDocumentRels).Root().SelectElements("Relationship") {
		if rel.SelectAttrValue("Id", "") == first {
			target = rel.SelectAttrValue("Target", "")
		}
	}
	if target != "media/image1.png" {
		t.Errorf("relationship target = %q", target)
	}

	ids := out.xml(t, partDocument).FindElements("//wp:docPr")
	if len(ids) != 2 || ids[0].SelectAttrValue("id", "") == ids[1].SelectAttrValue("id", "") {
		t.Error("drawing ids are not unique")
	}
	if d.Stats().Pictures != 2 {
		t.Errorf("Pictures = %d", d.Stats().Pictures)
	}
}

func TestPictureScaledToTextWidth(t *testing.T) {
	file := writePNG(t, t.TempDir(), "wide.png", 40, 20)

	d := newTestDocument(t, nil)
	d.orientation = common.OrientationPortrait
	if err := d.Picture(file, "", 934, 100); err != nil {
		t.Fatalf("Picture: %v", err)
	}
	ext := render(t, d).body(t)[0].FindElement(".//wp:extent")
	if got := ext.SelectAttrValue("cx", ""); got != strconv.Itoa(467*emuPerPoint) {
		t.Errorf("cx = %s, want %d", got, 467*emuPerPoint)
	}
	if got := ext.SelectAttrValue("cy", ""); got != strconv.Itoa(50*emuPerPoint) {
		t.Errorf("cy = %s, want %d", got, 50*emuPerPoint)
	}
}

func TestPictureErrors(t *testing.T) {
	dir := t.TempDir()
	d := newTestDocument(t, nil)

	if err := d.Picture(dir+"/missing.png", "", 10, 10); err == nil {
		t.Error("expected error for missing file")
	}
	file := writePNG(t, dir, "ok.png", 4, 4)
	if err := d.Picture(file, "", 0, 10); err == nil {
		t.Error("expected error for zero width")
	}
	if d.Stats().Pictures != 0 {
		t.Errorf("Pictures = %d", d.Stats().Pictures)
	}
	if body := render(t, d).body(t); len(body) != 0 {
		t.Errorf("failed pictures left %d elements", len(body))
	}
}
