package docx

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"dxw/utils/images"
)

// emuPerPoint converts points to drawing units.
const emuPerPoint = 12700

// embedded is picture already stored in package.
type embedded struct {
	relID string
	name  string
}

// Picture adds inline picture of width x height points in its own paragraph
// followed by optional caption. Pictures wider than text area are scaled
// down.
func (d *Document) Picture(file, caption string, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid picture size %dx%d", width, height)
	}
	if tw := d.textWidth(); width > tw {
		height = height * tw / width
		width = tw
		d.log.Debug("Picture scaled to text width", zap.String("file", file), zap.Int("width", width))
	}

	emb, err := d.embed(file, width, height)
	if err != nil {
		return err
	}

	p, _ := d.newParagraph(stylePicture)
	d.drawings++
	p.CreateElement("w:r").AddChild(drawing(emb, d.drawings, filepath.Base(file), width, height))
	if caption != "" {
		cp, _ := d.newParagraph("ImageCaption")
		appendText(cp.CreateElement("w:r"), caption, false)
	}
	d.stats.Pictures++
	return nil
}

// embed stores picture data once per file.
func (d *Document) embed(file string, width, height int) (embedded, error) {
	if emb, ok := d.media[file]; ok {
		return emb, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return embedded{}, fmt.Errorf("unable to read picture: %w", err)
	}
	px := func(pt int) int { return pt * d.opts.RasterDPI / 72 }
	pic, err := images.Prepare(data, px(width), px(height), d.opts.Images, d.log)
	if err != nil {
		return embedded{}, fmt.Errorf("unable to prepare picture %s: %w", file, err)
	}

	d.mediaCount++
	name := "image" + strconv.Itoa(d.mediaCount) + "." + pic.Ext()
	d.parts.set(path.Join(mediaDir, name), pic.Data)
	emb := embedded{relID: d.rels.add(relImage, "media/"+name), name: name}
	d.media[file] = emb
	d.log.Debug("Embedded picture", zap.String("file", file), zap.String("part", name),
		zap.String("format", pic.Format), zap.Int("bytes", len(pic.Data)))
	return emb, nil
}

func drawing(emb embedded, id int, descr string, width, height int) *etree.Element {
	cx := strconv.Itoa(width * emuPerPoint)
	cy := strconv.Itoa(height * emuPerPoint)

	dr := etree.NewElement("w:drawing")
	inline := dr.CreateElement("wp:inline")
	for _, k := range []string{"distT", "distB", "distL", "distR"} {
		inline.CreateAttr(k, "0")
	}
	ext := inline.CreateElement("wp:extent")
	ext.CreateAttr("cx", cx)
	ext.CreateAttr("cy", cy)
	docPr := inline.CreateElement("wp:docPr")
	docPr.CreateAttr("id", strconv.Itoa(id))
	docPr.CreateAttr("name", "Picture "+strconv.Itoa(id))
	docPr.CreateAttr("descr", descr)
	inline.CreateElement("wp:cNvGraphicFramePr").CreateElement("a:graphicFrameLocks").CreateAttr("noChangeAspect", "1")

	data := inline.CreateElement("a:graphic").CreateElement("a:graphicData")
	data.CreateAttr("uri", nsPic)
	pic := data.CreateElement("pic:pic")

	nv := pic.CreateElement("pic:nvPicPr")
	cNvPr := nv.CreateElement("pic:cNvPr")
	cNvPr.CreateAttr("id", "0")
	cNvPr.CreateAttr("name", emb.name)
	nv.CreateElement("pic:cNvPicPr")

	fill := pic.CreateElement("pic:blipFill")
	fill.CreateElement("a:blip").CreateAttr("r:embed", emb.relID)
	fill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := pic.CreateElement("pic:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", "0")
	off.CreateAttr("y", "0")
	aext := xfrm.CreateElement("a:ext")
	aext.CreateAttr("cx", cx)
	aext.CreateAttr("cy", cy)
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")
	return dr
}
