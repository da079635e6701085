package docx

import (
	"archive/zip"
	"bytes"
	"embed"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsRel = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT  = "http://schemas.openxmlformats.org/package/2006/content-types"

	nsCP      = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDC      = "http://purl.org/dc/elements/1.1/"
	nsDCTerms = "http://purl.org/dc/terms/"
	nsXSI     = "http://www.w3.org/2001/XMLSchema-instance"
	nsExtProp = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
)

const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relNumbering      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	relSettings       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relAppProps       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
)

const (
	ctRels      = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML       = "application/xml"
	ctDocument  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles    = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctNumbering = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	ctSettings  = "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"
	ctCore      = "application/vnd.openxmlformats-package.core-properties+xml"
	ctApp       = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

const (
	partContentTypes = "[Content_Types].xml"
	partRootRels     = "_rels/.rels"
	partDocument     = "word/document.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partStyles       = "word/styles.xml"
	partNumbering    = "word/numbering.xml"
	partSettings     = "word/settings.xml"
	partCore         = "docProps/core.xml"
	partApp          = "docProps/app.xml"
	mediaDir         = "word/media"
)

//go:embed template/*.xml
var builtin embed.FS

func builtinPart(name string) []byte {
	data, err := builtin.ReadFile(path.Join("template", path.Base(name)))
	if err != nil {
		// this should never happen
		panic(fmt.Sprintf("built-in template part %s is missing: %v", name, err))
	}
	return data
}

// parts keeps package parts in archive order.
type parts struct {
	names []string
	data  map[string][]byte
}

func newParts() *parts {
	return &parts{data: make(map[string][]byte)}
}

func (p *parts) get(name string) ([]byte, bool) {
	data, ok := p.data[name]
	return data, ok
}

func (p *parts) set(name string, data []byte) {
	if _, ok := p.data[name]; !ok {
		p.names = append(p.names, name)
	}
	p.data[name] = data
}

func builtinParts() *parts {
	p := newParts()
	for _, name := range []string{partDocument, partStyles, partNumbering, partSettings} {
		p.set(name, builtinPart(name))
	}
	return p
}

// readParts loads all parts of template archive.
func readParts(data []byte) (*parts, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("unable to open template archive: %w", err)
	}
	p := newParts()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("unable to open template part %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("unable to read template part %s: %w", f.Name, err)
		}
		p.set(f.Name, content)
	}
	if _, ok := p.get(partDocument); !ok {
		return nil, fmt.Errorf("template has no %s", partDocument)
	}
	return p, nil
}

func parseXML(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("no root element")
	}
	return doc, nil
}

func newXML(root string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	doc.CreateElement(root)
	return doc
}

func xmlBytes(doc *etree.Document) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// relationships is a single .rels part.
type relationships struct {
	doc  *etree.Document
	next int
}

func parseRelationships(data []byte) (*relationships, error) {
	r := &relationships{next: 1}
	if data == nil {
		r.doc = newXML("Relationships")
		r.doc.Root().CreateAttr("xmlns", nsRel)
		return r, nil
	}
	doc, err := parseXML(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse relationships: %w", err)
	}
	r.doc = doc
	for _, rel := range doc.Root().SelectElements("Relationship") {
		if n, err := strconv.Atoi(strings.TrimPrefix(rel.SelectAttrValue("Id", ""), "rId")); err == nil && n >= r.next {
			r.next = n + 1
		}
	}
	return r, nil
}

func (r *relationships) find(typ string) (string, string, bool) {
	for _, rel := range r.doc.Root().SelectElements("Relationship") {
		if rel.SelectAttrValue("Type", "") == typ {
			return rel.SelectAttrValue("Id", ""), rel.SelectAttrValue("Target", ""), true
		}
	}
	return "", "", false
}

func (r *relationships) add(typ, target string) string {
	id := "rId" + strconv.Itoa(r.next)
	r.next++
	rel := r.doc.Root().CreateElement("Relationship")
	rel.CreateAttr("Id", id)
	rel.CreateAttr("Type", typ)
	rel.CreateAttr("Target", target)
	return id
}

// ensure returns id of relationship of type typ adding one when missing.
func (r *relationships) ensure(typ, target string) string {
	if id, _, ok := r.find(typ); ok {
		return id
	}
	return r.add(typ, target)
}

// contentTypes is [Content_Types].xml part.
type contentTypes struct {
	doc *etree.Document
}

func parseContentTypes(data []byte) (*contentTypes, error) {
	if data == nil {
		doc := newXML("Types")
		doc.Root().CreateAttr("xmlns", nsCT)
		ct := &contentTypes{doc: doc}
		ct.addDefault("rels", ctRels)
		ct.addDefault("xml", ctXML)
		return ct, nil
	}
	doc, err := parseXML(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse content types: %w", err)
	}
	return &contentTypes{doc: doc}, nil
}

func (c *contentTypes) addDefault(ext, ctype string) {
	ext = strings.ToLower(ext)
	for _, d := range c.doc.Root().SelectElements("Default") {
		if strings.EqualFold(d.SelectAttrValue("Extension", ""), ext) {
			return
		}
	}
	d := c.doc.Root().CreateElement("Default")
	d.CreateAttr("Extension", ext)
	d.CreateAttr("ContentType", ctype)
}

func (c *contentTypes) addOverride(part, ctype string) {
	name := "/" + part
	for _, o := range c.doc.Root().SelectElements("Override") {
		if o.SelectAttrValue("PartName", "") == name {
			o.CreateAttr("ContentType", ctype)
			return
		}
	}
	o := c.doc.Root().CreateElement("Override")
	o.CreateAttr("PartName", name)
	o.CreateAttr("ContentType", ctype)
}
