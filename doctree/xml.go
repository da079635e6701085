package doctree

import (
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// textBearing lists kinds whose whitespace-only character data is
// significant. Everywhere else such data is pretty-printing noise.
var textBearing = map[Kind]bool{
	KindParagraph:             true,
	KindTitle:                 true,
	KindSubtitle:              true,
	KindTerm:                  true,
	KindCaption:               true,
	KindLine:                  true,
	KindLiteralBlock:          true,
	KindDoctestBlock:          true,
	KindEmphasis:              true,
	KindStrong:                true,
	KindLiteral:               true,
	KindLiteralEmphasis:       true,
	KindLiteralStrong:         true,
	KindSubscript:             true,
	KindSuperscript:           true,
	KindTitleReference:        true,
	KindAbbreviation:          true,
	KindProblematic:           true,
	KindReference:             true,
	KindPendingXref:           true,
	KindDownloadReference:     true,
	KindInline:                true,
	KindGenerated:             true,
	KindCompactParagraph:      true,
	KindDescName:              true,
	KindDescAddName:           true,
	KindDescType:              true,
	KindDescAnnotation:        true,
	KindOptionString:          true,
	KindRubric:                true,
	KindAttribution:           true,
	KindSubstitutionReference: true,
}

// NewXMLDocument returns etree document configured to read docutils XML
// output in any declared encoding.
func NewXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		ValidateInput: false,
		Permissive:    true,
	}
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	return doc
}

// ReadXML parses docutils/Sphinx XML doctree (as produced by "rst2xml" or
// Sphinx "xml" builder) and returns its root node.
func ReadXML(r io.Reader, log *zap.Logger) (*Node, *etree.Document, error) {
	doc := NewXMLDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, nil, fmt.Errorf("unable to read XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil, errors.New("XML document has no root element")
	}
	if root.Tag != KindDocument.String() {
		log.Warn("Unexpected doctree root element, continuing", zap.String("tag", root.FullTag()))
	}

	unknown := make(map[string]int)
	node := fromElement(root, unknown)
	for name, count := range unknown {
		log.Debug("Unknown doctree element will be skipped", zap.String("tag", name), zap.Int("count", count))
	}
	return node, doc, nil
}

// FromElement converts etree element subtree into content nodes.
func FromElement(el *etree.Element) *Node {
	return fromElement(el, nil)
}

func fromElement(el *etree.Element, unknown map[string]int) *Node {
	kind := ParseKind(el.Tag)
	if kind == KindUnknown && unknown != nil {
		unknown[el.Tag]++
	}
	n := &Node{Kind: kind, Name: el.Tag}
	if len(el.Attr) > 0 {
		n.Attrs = make(map[string]string, len(el.Attr))
		for _, a := range el.Attr {
			n.Attrs[a.Key] = a.Value
		}
	}
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.Element:
			n.Children = append(n.Children, fromElement(t, unknown))
		case *etree.CharData:
			if t.IsWhitespace() && !textBearing[kind] {
				continue
			}
			n.Children = append(n.Children, NewText(t.Data))
		}
	}
	return n
}
