// Package docx composes WordprocessingML packages from translated document
// units.
package docx

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"dxw/common"
	"dxw/convert/model"
	"dxw/utils/images"
)

// Options control document composition.
type Options struct {
	Images images.Options
	// RasterDPI is used to compute pixel size of rasterized vector pictures.
	RasterDPI int
	// Language is BCP 47 tag applied to document default run properties.
	Language string
}

// Document accumulates body content. It implements translate.Composer.
type Document struct {
	log  *zap.Logger
	opts Options

	parts     *parts
	doc       *etree.Document
	body      *etree.Element
	styles    *styleSheet
	fallback  *styleSheet
	numbering *numbering
	rels      *relationships
	props     Properties

	// section properties of the template last section
	sect        *etree.Element
	orientation common.Orientation

	usedStyles map[string]string
	media      map[string]embedded
	mediaCount int
	drawings   int

	stats     Stats
	finalized bool
}

// Stats counts produced units.
type Stats struct {
	Paragraphs int
	Headings   int
	ListItems  int
	Tables     int
	Pictures   int
	Sections   int
}

// New creates document based on template archive, built-in template is used
// when template is nil.
func New(template []byte, opts Options, log *zap.Logger) (*Document, error) {
	var (
		p   *parts
		err error
	)
	if template == nil {
		p = builtinParts()
	} else if p, err = readParts(template); err != nil {
		return nil, err
	}

	d := &Document{
		log:        log.Named("docx"),
		opts:       opts,
		parts:      p,
		usedStyles: make(map[string]string),
		media:      make(map[string]embedded),
	}
	if d.opts.RasterDPI <= 0 {
		d.opts.RasterDPI = 192
	}

	data, _ := p.get(partDocument)
	if d.doc, err = parseXML(data); err != nil {
		return nil, fmt.Errorf("unable to parse template document: %w", err)
	}
	if d.body = d.doc.Root().SelectElement("w:body"); d.body == nil {
		d.body = d.doc.Root().CreateElement("w:body")
	}
	d.resetBody()
	d.declareNamespaces()

	if d.fallback, err = parseStyles(builtinPart(partStyles)); err != nil {
		return nil, err
	}
	if data, ok := p.get(partStyles); ok {
		if d.styles, err = parseStyles(data); err != nil {
			return nil, err
		}
	} else if d.styles, err = parseStyles(builtinPart(partStyles)); err != nil {
		return nil, err
	}

	data, ok := p.get(partNumbering)
	if !ok {
		data = builtinPart(partNumbering)
	}
	if d.numbering, err = parseNumbering(data, d.log); err != nil {
		return nil, err
	}

	data, _ = p.get(partDocumentRels)
	if d.rels, err = parseRelationships(data); err != nil {
		return nil, err
	}
	return d, nil
}

// resetBody removes template content keeping last section properties.
func (d *Document) resetBody() {
	for _, el := range d.body.ChildElements() {
		if el.Tag == "sectPr" {
			d.sect = el
		}
		d.body.RemoveChild(el)
	}
	if d.sect == nil {
		d.sect = etree.NewElement("w:sectPr")
		sz := d.sect.CreateElement("w:pgSz")
		sz.CreateAttr("w:w", "11906")
		sz.CreateAttr("w:h", "16838")
	}
	if d.landscapeTemplate() {
		d.orientation = common.OrientationLandscape
	}
}

func (d *Document) declareNamespaces() {
	root := d.doc.Root()
	for prefix, ns := range map[string]string{"w": nsW, "r": nsR, "wp": nsWP, "a": nsA, "pic": nsPic} {
		if root.SelectAttr("xmlns:"+prefix) == nil {
			root.CreateAttr("xmlns:"+prefix, ns)
		}
	}
}

// MaxNumberingID returns highest numbering id translator must not reuse.
func (d *Document) MaxNumberingID() int {
	return d.numbering.bulletID()
}

// Stats returns counters of produced units.
func (d *Document) Stats() Stats {
	return d.stats
}

func (d *Document) useStyle(id, typ string) {
	if id != "" {
		d.usedStyles[id] = typ
	}
}

func (d *Document) newParagraph(style string) (*etree.Element, *etree.Element) {
	p := d.body.CreateElement("w:p")
	pPr := p.CreateElement("w:pPr")
	if style != "" {
		pPr.CreateElement("w:pStyle").CreateAttr("w:val", style)
		d.useStyle(style, styleParagraph)
	}
	return p, pPr
}

// Paragraph adds body paragraph indented by block level.
func (d *Document) Paragraph(frags []model.Fragment, style string, blockLevel int) {
	p, pPr := d.newParagraph(style)
	if blockLevel > 0 {
		pPr.CreateElement("w:ind").CreateAttr("w:left", strconv.Itoa(blockIndent*blockLevel))
	}
	d.appendRuns(p, frags, keepsLines(style))
	d.stats.Paragraphs++
}

const blockIndent = 567

// Heading adds paragraph styled with heading style of level. Level 0 is the
// document title, which stays out of the outline.
func (d *Document) Heading(frags []model.Fragment, level int) {
	if level <= 0 {
		p, _ := d.newParagraph(styleTitle)
		d.appendRuns(p, frags, false)
		d.stats.Headings++
		return
	}
	level = min(level, 9)
	p, pPr := d.newParagraph(styleHeading + strconv.Itoa(level))
	pPr.CreateElement("w:outlineLvl").CreateAttr("w:val", strconv.Itoa(level-1))
	d.appendRuns(p, frags, false)
	d.stats.Headings++
}

// ListItem adds single list paragraph.
func (d *Document) ListItem(item model.ListItem) {
	p, pPr := d.newParagraph(item.Style)
	d.numbering.attach(pPr, item)
	d.appendRuns(p, item.Fragments, false)
	d.stats.ListItems++
}

// PageBreak starts new page, orientation change always starts new section.
func (d *Document) PageBreak(kind model.BreakType, orient common.Orientation) {
	if kind == model.BreakSection || orient != d.orientation {
		_, pPr := d.newParagraph("")
		pPr.AddChild(d.sectionProperties(d.orientation))
		d.orientation = orient
		d.stats.Sections++
		d.log.Debug("Section break", zap.Stringer("orientation", orient))
		return
	}
	p := d.body.CreateElement("w:p")
	p.CreateElement("w:r").CreateElement("w:br").CreateAttr("w:type", "page")
}

func (d *Document) landscapeTemplate() bool {
	w, h := d.pageSize(d.sect)
	return w > h
}

func (d *Document) pageSize(sect *etree.Element) (int, int) {
	sz := sect.SelectElement("w:pgSz")
	if sz == nil {
		return 11906, 16838
	}
	w, _ := strconv.Atoi(sz.SelectAttrValue("w:w", "11906"))
	h, _ := strconv.Atoi(sz.SelectAttrValue("w:h", "16838"))
	return w, h
}

// sectionProperties returns copy of template section turned to orientation o.
func (d *Document) sectionProperties(o common.Orientation) *etree.Element {
	sect := d.sect.Copy()
	sz := sect.SelectElement("w:pgSz")
	if sz == nil {
		return sect
	}
	w, h := d.pageSize(sect)
	if o.Swap(w > h) {
		w, h = h, w
	}
	sz.CreateAttr("w:w", strconv.Itoa(w))
	sz.CreateAttr("w:h", strconv.Itoa(h))
	if o == common.OrientationLandscape {
		sz.CreateAttr("w:orient", "landscape")
	} else {
		sz.RemoveAttr("w:orient")
	}
	return sect
}

// textWidth returns usable width of current section in points.
func (d *Document) textWidth() int {
	sect := d.sectionProperties(d.orientation)
	w, _ := d.pageSize(sect)
	if mar := sect.SelectElement("w:pgMar"); mar != nil {
		l, _ := strconv.Atoi(mar.SelectAttrValue("w:left", "0"))
		r, _ := strconv.Atoi(mar.SelectAttrValue("w:right", "0"))
		w -= l + r
	}
	return max(w/20, 1)
}
