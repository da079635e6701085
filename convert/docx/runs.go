package docx

import (
	"strings"

	"github.com/beevik/etree"

	"dxw/convert/model"
)

// keepsLines reports whether new lines inside text of paragraph style are
// line breaks rather than spaces.
func keepsLines(style string) bool {
	return style == "LiteralBlock" || style == "LineBlock"
}

func (d *Document) appendRuns(p *etree.Element, frags []model.Fragment, lines bool) {
	for _, f := range frags {
		if f.Break {
			p.CreateElement("w:r").CreateElement("w:br")
			continue
		}
		if f.Text == "" {
			continue
		}
		r := p.CreateElement("w:r")
		if len(f.Styles) > 0 {
			rPr := r.CreateElement("w:rPr")
			rPr.CreateElement("w:rStyle").CreateAttr("w:val", f.Style())
			d.useStyle(f.Style(), styleCharacter)
			for _, outer := range f.Styles[1:] {
				if apply, ok := directFormat[outer]; ok {
					apply(rPr)
				}
			}
		}
		appendText(r, f.Text, lines)
	}
}

// appendText writes text into run, tabs become w:tab and new lines become
// w:br or spaces.
func appendText(r *etree.Element, text string, lines bool) {
	if !lines {
		text = strings.ReplaceAll(text, "\r\n", " ")
		text = strings.ReplaceAll(text, "\n", " ")
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			r.CreateElement("w:br")
		}
		for j, chunk := range strings.Split(strings.TrimSuffix(line, "\r"), "\t") {
			if j > 0 {
				r.CreateElement("w:tab")
			}
			if chunk == "" {
				continue
			}
			t := r.CreateElement("w:t")
			t.CreateAttr("xml:space", "preserve")
			t.SetText(chunk)
		}
	}
}
