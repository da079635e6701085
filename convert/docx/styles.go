package docx

import (
	"fmt"

	"github.com/beevik/etree"
)

// Style types of WordprocessingML.
const (
	styleParagraph = "paragraph"
	styleCharacter = "character"
	styleTable     = "table"
)

// Well known style ids produced by composer itself.
const (
	stylePicture   = "Picture"
	styleTableGrid = "TableGrid"
	styleHeading   = "Heading"
	styleTitle     = "Title"
)

// monoFonts is used for literal text which has no character style.
var monoFonts = map[string]string{"w:ascii": "Consolas", "w:hAnsi": "Consolas", "w:cs": "Consolas"}

// directFormat reproduces character style as run properties, runs may only
// reference single character style so outer spans are expressed this way.
var directFormat = map[string]func(rPr *etree.Element){
	"Emphasis": toggle("w:i"),
	"Strong":   toggle("w:b"),
	"Literal":  fonts,
	"LiteralEmphasis": func(rPr *etree.Element) {
		fonts(rPr)
		toggle("w:i")(rPr)
	},
	"LiteralStrong": func(rPr *etree.Element) {
		fonts(rPr)
		toggle("w:b")(rPr)
	},
	"Subscript":      vertAlign("subscript"),
	"Superscript":    vertAlign("superscript"),
	"TitleReference": toggle("w:i"),
	"Abbreviation":   toggle("w:smallCaps"),
	"Problematic": func(rPr *etree.Element) {
		rPr.CreateElement("w:color").CreateAttr("w:val", "FF0000")
	},
}

func toggle(tag string) func(*etree.Element) {
	return func(rPr *etree.Element) {
		if rPr.SelectElement(tag) == nil {
			rPr.CreateElement(tag)
		}
	}
}

func fonts(rPr *etree.Element) {
	if rPr.SelectElement("w:rFonts") != nil {
		return
	}
	f := rPr.CreateElement("w:rFonts")
	for _, k := range []string{"w:ascii", "w:hAnsi", "w:cs"} {
		f.CreateAttr(k, monoFonts[k])
	}
}

func vertAlign(val string) func(*etree.Element) {
	return func(rPr *etree.Element) {
		rPr.CreateElement("w:vertAlign").CreateAttr("w:val", val)
	}
}

// styleSheet wraps styles part.
type styleSheet struct {
	doc *etree.Document
	ids map[string]*etree.Element
}

func parseStyles(data []byte) (*styleSheet, error) {
	doc, err := parseXML(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse styles: %w", err)
	}
	s := &styleSheet{doc: doc, ids: make(map[string]*etree.Element)}
	for _, st := range doc.Root().SelectElements("w:style") {
		if id := st.SelectAttrValue("w:styleId", ""); id != "" {
			s.ids[id] = st
		}
	}
	return s, nil
}

func (s *styleSheet) has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *styleSheet) add(st *etree.Element) {
	s.doc.Root().AddChild(st)
	s.ids[st.SelectAttrValue("w:styleId", "")] = st
}

// ensure makes sure style id exists copying it from fallback sheet or
// creating plain style of type typ.
func (s *styleSheet) ensure(id, typ string, fallback *styleSheet) bool {
	if s.has(id) {
		return false
	}
	if fallback != nil {
		if st, ok := fallback.ids[id]; ok {
			s.add(st.Copy())
			return true
		}
	}
	st := etree.NewElement("w:style")
	st.CreateAttr("w:type", typ)
	st.CreateAttr("w:styleId", id)
	st.CreateElement("w:name").CreateAttr("w:val", id)
	if typ == styleParagraph && s.has("Normal") {
		st.CreateElement("w:basedOn").CreateAttr("w:val", "Normal")
	}
	st.CreateElement("w:qFormat")
	s.add(st)
	return true
}

// setLanguage changes default run language.
func (s *styleSheet) setLanguage(lang string) {
	root := s.doc.Root()
	path := []string{"w:docDefaults", "w:rPrDefault", "w:rPr", "w:lang"}
	el := root
	for _, tag := range path {
		next := el.SelectElement(tag)
		if next == nil {
			next = el.CreateElement(tag)
			if tag == "w:docDefaults" {
				// must be first child
				root.RemoveChild(next)
				root.InsertChildAt(0, next)
			}
		}
		el = next
	}
	el.CreateAttr("w:val", lang)
}
