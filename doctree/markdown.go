package doctree

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"
)

var markdownExtensions = map[string]goldmark.Extender{
	"gfm":             extension.GFM,
	"table":           extension.Table,
	"strikethrough":   extension.Strikethrough,
	"tasklist":        extension.TaskList,
	"linkify":         extension.Linkify,
	"definition_list": extension.DefinitionList,
	"footnote":        extension.Footnote,
	"typographer":     extension.Typographer,
}

// MarkdownExtensionNames returns names accepted by NewMarkdown.
func MarkdownExtensionNames() []string {
	return []string{"gfm", "table", "strikethrough", "tasklist", "linkify", "definition_list", "footnote", "typographer"}
}

// Markdown converts CommonMark (with optional extensions) into content tree
// using the same node kinds docutils would produce for similar markup.
type Markdown struct {
	md  goldmark.Markdown
	log *zap.Logger
}

// NewMarkdown creates converter with requested goldmark extensions. Unknown
// extension names are reported and ignored.
func NewMarkdown(extensions []string, log *zap.Logger) *Markdown {
	var exts []goldmark.Extender
	for _, name := range extensions {
		ext, ok := markdownExtensions[strings.ToLower(name)]
		if !ok {
			log.Warn("Unknown markdown extension, ignoring", zap.String("name", name), zap.Strings("known", MarkdownExtensionNames()))
			continue
		}
		exts = append(exts, ext)
	}
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		log: log,
	}
}

// Convert parses markdown source into content tree rooted at document node.
func (m *Markdown) Convert(src []byte) (*Node, error) {
	root := m.md.Parser().Parse(text.NewReader(src))
	if root == nil || root.Kind() != ast.KindDocument {
		return nil, fmt.Errorf("unexpected markdown parser result")
	}
	b := &mdBuilder{src: src, log: m.log}
	doc := NewElement(KindDocument)
	b.sections = []mdSection{{level: 0, node: doc}}
	for c := root.FirstChild(); c != nil; c = c.NextSibling() {
		if h, ok := c.(*ast.Heading); ok {
			b.openSection(h)
			continue
		}
		if n := b.block(c); n != nil {
			b.current().Append(n)
		}
	}
	return doc, nil
}

type mdSection struct {
	level int
	node  *Node
}

type mdBuilder struct {
	src      []byte
	log      *zap.Logger
	sections []mdSection
}

func (b *mdBuilder) current() *Node {
	return b.sections[len(b.sections)-1].node
}

func (b *mdBuilder) openSection(h *ast.Heading) {
	for len(b.sections) > 1 && b.sections[len(b.sections)-1].level >= h.Level {
		b.sections = b.sections[:len(b.sections)-1]
	}
	sec := NewElement(KindSection, NewElement(KindTitle, b.inlines(h, 0)...))
	if id, ok := h.AttributeString("id"); ok {
		if v, ok := id.([]byte); ok {
			sec.WithAttr("ids", string(v))
		}
	}
	b.current().Append(sec)
	b.sections = append(b.sections, mdSection{level: h.Level, node: sec})
}

var alertRe = regexp.MustCompile(`^\[!(NOTE|TIP|IMPORTANT|WARNING|CAUTION|DANGER|HINT|ATTENTION|ERROR)\][ \t]*$`)

func (b *mdBuilder) block(n ast.Node) *Node {
	switch t := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return NewElement(KindParagraph, b.inlines(t, 0)...)

	case *ast.Heading:
		// nested heading (inside list or quote) cannot open section
		return NewElement(KindParagraph, NewElement(KindStrong, b.inlines(t, 0)...))

	case *ast.List:
		var list *Node
		if t.IsOrdered() {
			list = NewElement(KindEnumeratedList).
				WithAttr("enumtype", "arabic").
				WithAttr("prefix", "").
				WithAttr("suffix", string(t.Marker))
			if t.Start != 1 {
				list.WithAttr("start", strconv.Itoa(t.Start))
			}
		} else {
			list = NewElement(KindBulletList).WithAttr("bullet", string(t.Marker))
		}
		for c := t.FirstChild(); c != nil; c = c.NextSibling() {
			list.Append(b.container(KindListItem, c))
		}
		return list

	case *ast.Blockquote:
		if adm := b.alert(t); adm != nil {
			return adm
		}
		return b.container(KindBlockQuote, t)

	case *ast.FencedCodeBlock:
		lb := NewElement(KindLiteralBlock, NewText(b.lines(t)))
		if lang := t.Language(b.src); len(lang) > 0 {
			lb.WithAttr("language", string(lang))
		}
		return lb

	case *ast.CodeBlock:
		return NewElement(KindLiteralBlock, NewText(b.lines(t)))

	case *ast.ThematicBreak:
		return NewElement(KindTransition)

	case *ast.HTMLBlock:
		return NewElement(KindRaw, NewText(b.lines(t))).WithAttr("format", "html")

	case *east.Table:
		return b.table(t)

	case *east.DefinitionList:
		return b.definitions(t)

	case *east.FootnoteList:
		return b.container(KindFootnote, t)
	}

	b.log.Debug("Unsupported markdown block, skipping", zap.Stringer("kind", n.Kind()))
	return &Node{Kind: KindUnknown, Name: n.Kind().String()}
}

func (b *mdBuilder) container(kind Kind, n ast.Node) *Node {
	out := NewElement(kind)
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if blk := b.block(c); blk != nil {
			out.Append(blk)
		}
	}
	return out
}

// alert recognizes GitHub style admonitions: quote which starts with "[!NOTE]" line.
func (b *mdBuilder) alert(q *ast.Blockquote) *Node {
	first, ok := q.FirstChild().(*ast.Paragraph)
	if !ok || first.Lines().Len() == 0 {
		return nil
	}
	line := first.Lines().At(0)
	m := alertRe.FindSubmatch(bytes.TrimRight(line.Value(b.src), "\r\n"))
	if m == nil {
		return nil
	}
	adm := NewElement(ParseKind(strings.ToLower(string(m[1]))))
	if rest := b.inlines(first, line.Stop); len(rest) > 0 {
		adm.Append(NewElement(KindParagraph, rest...))
	}
	for c := first.NextSibling(); c != nil; c = c.NextSibling() {
		if blk := b.block(c); blk != nil {
			adm.Append(blk)
		}
	}
	return adm
}

func (b *mdBuilder) table(t *east.Table) *Node {
	cols := 0
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		cols = max(cols, r.ChildCount())
	}
	tgroup := NewElement(KindTGroup).WithAttr("cols", strconv.Itoa(cols))
	for range cols {
		tgroup.Append(NewElement(KindColSpec).WithAttr("colwidth", "1"))
	}
	var thead, tbody *Node
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		row := NewElement(KindRow)
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			row.Append(NewElement(KindEntry, NewElement(KindParagraph, b.inlines(c, 0)...)))
		}
		if _, ok := r.(*east.TableHeader); ok {
			if thead == nil {
				thead = NewElement(KindTHead)
			}
			thead.Append(row)
			continue
		}
		if tbody == nil {
			tbody = NewElement(KindTBody)
		}
		tbody.Append(row)
	}
	if thead != nil {
		tgroup.Append(thead)
	}
	if tbody != nil {
		tgroup.Append(tbody)
	}
	return NewElement(KindTable, tgroup)
}

func (b *mdBuilder) definitions(dl *east.DefinitionList) *Node {
	list := NewElement(KindDefinitionList)
	var item, def *Node
	for c := dl.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *east.DefinitionTerm:
			item = NewElement(KindDefinitionListItem, NewElement(KindTerm, b.inlines(t, 0)...))
			def = nil
			list.Append(item)
		case *east.DefinitionDescription:
			if item == nil {
				item = NewElement(KindDefinitionListItem)
				list.Append(item)
			}
			if def == nil {
				def = NewElement(KindDefinition)
				item.Append(def)
			}
			for cc := t.FirstChild(); cc != nil; cc = cc.NextSibling() {
				if blk := b.block(cc); blk != nil {
					def.Append(blk)
				}
			}
		}
	}
	return list
}

func (b *mdBuilder) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(b.src))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// inlines converts inline children of n. Text which ends before "skip"
// offset is dropped.
func (b *mdBuilder) inlines(n ast.Node, skip int) []*Node {
	var out []*Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok && t.Segment.Stop <= skip {
			continue
		}
		if in := b.inline(c); in != nil {
			out = append(out, in...)
		}
	}
	return out
}

func (b *mdBuilder) inline(n ast.Node) []*Node {
	switch t := n.(type) {
	case *ast.Text:
		s := string(t.Segment.Value(b.src))
		if t.SoftLineBreak() || t.HardLineBreak() {
			s += "\n"
		}
		return []*Node{NewText(s)}

	case *ast.String:
		return []*Node{NewText(string(t.Value))}

	case *ast.Emphasis:
		kind := KindEmphasis
		if t.Level > 1 {
			kind = KindStrong
		}
		return []*Node{NewElement(kind, b.inlines(t, 0)...)}

	case *ast.CodeSpan:
		return []*Node{NewElement(KindLiteral, b.inlines(t, 0)...)}

	case *ast.Link:
		return []*Node{NewElement(KindReference, b.inlines(t, 0)...).WithAttr("refuri", string(t.Destination))}

	case *ast.AutoLink:
		url := string(t.URL(b.src))
		return []*Node{NewElement(KindReference, NewText(string(t.Label(b.src)))).WithAttr("refuri", url)}

	case *ast.Image:
		img := NewElement(KindImage).WithAttr("uri", string(t.Destination))
		var alt strings.Builder
		for c := t.FirstChild(); c != nil; c = c.NextSibling() {
			for _, a := range b.inline(c) {
				alt.WriteString(a.AsText())
			}
		}
		if alt.Len() > 0 {
			img.WithAttr("alt", alt.String())
		}
		return []*Node{img}

	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := range t.Segments.Len() {
			seg := t.Segments.At(i)
			buf.Write(seg.Value(b.src))
		}
		return []*Node{NewElement(KindRaw, NewText(buf.String())).WithAttr("format", "html")}

	case *east.Strikethrough:
		return []*Node{NewElement(KindInline, b.inlines(t, 0)...).WithAttr("classes", "strike")}

	case *east.TaskCheckBox:
		if t.IsChecked {
			return []*Node{NewText("[x] ")}
		}
		return []*Node{NewText("[ ] ")}

	case *east.FootnoteLink:
		return []*Node{NewElement(KindFootnoteReference, NewText(strconv.Itoa(t.Index)))}

	case *east.FootnoteBacklink:
		return nil
	}

	b.log.Debug("Unsupported markdown inline, skipping", zap.Stringer("kind", n.Kind()))
	return nil
}
