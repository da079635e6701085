package docx

import (
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// Properties are document core and extended properties.
type Properties struct {
	Title       string
	Subject     string
	Creator     string
	Description string
	Keywords    []string
	Language    string
	// Identifier is generated when empty.
	Identifier string
	Created    time.Time
	// Application names producing program.
	Application string
}

// SetProperties replaces document properties.
func (d *Document) SetProperties(props Properties) {
	d.props = props
}

// Properties returns current document properties.
func (d *Document) Properties() Properties {
	return d.props
}

func (d *Document) coreProperties() (*etree.Document, error) {
	p := d.props
	if p.Identifier == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}
		p.Identifier = "urn:uuid:" + id.String()
		d.props.Identifier = p.Identifier
	}
	created := p.Created
	if created.IsZero() {
		created = time.Now()
	}
	stamp := created.UTC().Format(time.RFC3339)

	doc := newXML("cp:coreProperties")
	root := doc.Root()
	root.CreateAttr("xmlns:cp", nsCP)
	root.CreateAttr("xmlns:dc", nsDC)
	root.CreateAttr("xmlns:dcterms", nsDCTerms)
	root.CreateAttr("xmlns:xsi", nsXSI)

	text := func(tag, value string) {
		if value != "" {
			root.CreateElement(tag).SetText(value)
		}
	}
	text("dc:title", p.Title)
	text("dc:subject", p.Subject)
	text("dc:creator", p.Creator)
	text("dc:description", p.Description)
	text("cp:keywords", strings.Join(p.Keywords, ", "))
	text("dc:language", p.Language)
	text("dc:identifier", p.Identifier)
	for _, tag := range []string{"dcterms:created", "dcterms:modified"} {
		el := root.CreateElement(tag)
		el.CreateAttr("xsi:type", "dcterms:W3CDTF")
		el.SetText(stamp)
	}
	return doc, nil
}

func (d *Document) appProperties() *etree.Document {
	doc := newXML("Properties")
	root := doc.Root()
	root.CreateAttr("xmlns", nsExtProp)
	if d.props.Application != "" {
		root.CreateElement("Application").SetText(d.props.Application)
	}
	return doc
}
