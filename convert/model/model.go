// Package model defines units exchanged between content tree translator and
// document composer.
package model

import "strings"

// Fragment is the smallest unit of accumulated text: plain text, styled text
// or a line break marker.
type Fragment struct {
	Text  string
	Break bool
	// Styles holds inline style names, innermost first.
	Styles []string
}

// Plain returns unstyled text fragment.
func Plain(s string) Fragment {
	return Fragment{Text: s}
}

// Styled returns text fragment with styles applied.
func Styled(s string, styles ...string) Fragment {
	return Fragment{Text: s, Styles: styles}
}

// LineBreak returns line break marker.
func LineBreak() Fragment {
	return Fragment{Break: true}
}

// Style returns innermost style or empty string.
func (f Fragment) Style() string {
	if len(f.Styles) == 0 {
		return ""
	}
	return f.Styles[0]
}

// WithStyle returns copy of the fragment with style appended as the outermost one.
func (f Fragment) WithStyle(style string) Fragment {
	styles := make([]string, len(f.Styles), len(f.Styles)+1)
	copy(styles, f.Styles)
	f.Styles = append(styles, style)
	return f
}

// PlainText returns text of fragments with line breaks as "\n".
func PlainText(frags []Fragment) string {
	var sb strings.Builder
	for _, f := range frags {
		if f.Break {
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString(f.Text)
	}
	return sb.String()
}

// Numbering format for enumerated lists.
const (
	EnumArabic     = "arabic"
	EnumLowerAlpha = "loweralpha"
	EnumUpperAlpha = "upperalpha"
	EnumLowerRoman = "lowerroman"
	EnumUpperRoman = "upperroman"
)

// ListStyle names used for list item units.
const (
	ListStyleBullet = "ListBullet"
	ListStyleNumber = "ListNumber"
)

// Enumeration describes how numbered list labels are produced.
type Enumeration struct {
	// Prefix is label template where "%1" is replaced by the number.
	Prefix string
	// Type is one of Enum* values.
	Type  string
	Start int
}

// ListItem is a single paragraph of a list item.
type ListItem struct {
	Fragments []Fragment
	Style     string
	// Level is list nesting depth, 1 for top level lists. Block quotes
	// increase it as well.
	Level int
	// NumberingID is set for the first paragraph of numbered items, zero
	// otherwise.
	NumberingID int
	// Enum is set together with NumberingID.
	Enum *Enumeration
	// Continuation marks paragraphs following the first one in the same item.
	Continuation bool
}

// Numbered reports whether unit starts a numbered item.
func (li ListItem) Numbered() bool {
	return li.NumberingID > 0 && !li.Continuation
}

// BreakType identifies kind of hard break.
type BreakType int

const (
	BreakPage BreakType = iota
	BreakSection
)
