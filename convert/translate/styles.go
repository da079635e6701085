package translate

import (
	"go.uber.org/zap"

	"dxw/doctree"
)

// Character style names applied by inline markup.
const (
	StyleEmphasis        = "Emphasis"
	StyleStrong          = "Strong"
	StyleLiteral         = "Literal"
	StyleLiteralEmphasis = "LiteralEmphasis"
	StyleLiteralStrong   = "LiteralStrong"
	StyleSubscript       = "Subscript"
	StyleSuperscript     = "Superscript"
	StyleTitleReference  = "TitleReference"
	StyleAbbreviation    = "Abbreviation"
	StyleProblematic     = "Problematic"
)

// Paragraph style names used for block constructs.
const (
	StyleLiteralBlock   = "LiteralBlock"
	StyleImageCaption   = "ImageCaption"
	StyleDefinitionTerm = "DefinitionTerm"
	StyleLineBlock      = "LineBlock"
)

var inlineStyles = map[doctree.Kind]string{
	doctree.KindEmphasis:        StyleEmphasis,
	doctree.KindStrong:          StyleStrong,
	doctree.KindLiteral:         StyleLiteral,
	doctree.KindLiteralEmphasis: StyleLiteralEmphasis,
	doctree.KindLiteralStrong:   StyleLiteralStrong,
	doctree.KindSubscript:       StyleSubscript,
	doctree.KindSuperscript:     StyleSuperscript,
	doctree.KindTitleReference:  StyleTitleReference,
	doctree.KindAbbreviation:    StyleAbbreviation,
	doctree.KindProblematic:     StyleProblematic,
}

// tagLast applies style to the most recent fragment of the top frame only.
// Earlier fragments of the span were already tagged by nested spans.
func (t *Translator) tagLast(style string) {
	top := t.frames.top()
	if len(*top) == 0 {
		t.log.Debug("Nothing to style", zap.String("style", style))
		return
	}
	last := len(*top) - 1
	(*top)[last] = (*top)[last].WithStyle(style)
}

func (t *Translator) exitInline(n *doctree.Node) error {
	t.tagLast(inlineStyles[n.Kind])
	return nil
}
