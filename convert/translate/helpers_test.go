package translate

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"dxw/common"
	"dxw/convert/model"
	"dxw/doctree"
	"dxw/utils/images"
)

// unit is a single call recorded by fakeComposer.
type unit struct {
	op      string
	frags   []model.Fragment
	style   string
	level   int
	item    model.ListItem
	rows    [][]string
	path    string
	w, h    int
	orient  common.Orientation
	breakTy model.BreakType
}

func (u unit) text() string {
	return model.PlainText(u.frags)
}

type fakeComposer struct {
	units      []unit
	maxID      int
	pictureErr error
}

func (c *fakeComposer) Paragraph(frags []model.Fragment, style string, blockLevel int) {
	c.units = append(c.units, unit{op: "paragraph", frags: frags, style: style, level: blockLevel})
}

func (c *fakeComposer) Heading(frags []model.Fragment, level int) {
	c.units = append(c.units, unit{op: "heading", frags: frags, level: level})
}

func (c *fakeComposer) ListItem(item model.ListItem) {
	c.units = append(c.units, unit{op: "list", frags: item.Fragments, item: item, level: item.Level})
}

func (c *fakeComposer) Table(rows [][]string) {
	c.units = append(c.units, unit{op: "table", rows: rows})
}

func (c *fakeComposer) Picture(path, caption string, width, height int) error {
	if c.pictureErr != nil {
		return c.pictureErr
	}
	c.units = append(c.units, unit{op: "picture", path: path, w: width, h: height})
	return nil
}

func (c *fakeComposer) PageBreak(kind model.BreakType, orient common.Orientation) {
	c.units = append(c.units, unit{op: "break", breakTy: kind, orient: orient})
}

func (c *fakeComposer) MaxNumberingID() int {
	return c.maxID
}

func (c *fakeComposer) ops() string {
	var names []string
	for _, u := range c.units {
		names = append(names, u.op)
	}
	return strings.Join(names, ",")
}

type fakeProber struct {
	info  images.Info
	err   error
	calls int
}

func (p *fakeProber) Probe(path string) (images.Info, error) {
	p.calls++
	return p.info, p.err
}

func testLogger(t *testing.T) *zap.Logger {
	t.Helper()
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

func translate(t *testing.T, root *doctree.Node, opts Options) (*fakeComposer, error) {
	t.Helper()
	comp := &fakeComposer{}
	err := New(comp, opts, testLogger(t)).Translate(context.Background(), root)
	return comp, err
}

func mustTranslate(t *testing.T, root *doctree.Node, opts Options) *fakeComposer {
	t.Helper()
	comp, err := translate(t, root, opts)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	return comp
}

// tree construction shortcuts

func el(k doctree.Kind, children ...*doctree.Node) *doctree.Node {
	return doctree.NewElement(k, children...)
}

func txt(s string) *doctree.Node {
	return doctree.NewText(s)
}

func doc(children ...*doctree.Node) *doctree.Node {
	return el(doctree.KindDocument, children...)
}

func para(children ...*doctree.Node) *doctree.Node {
	return el(doctree.KindParagraph, children...)
}

func item(children ...*doctree.Node) *doctree.Node {
	return el(doctree.KindListItem, children...)
}

func bullets(items ...*doctree.Node) *doctree.Node {
	return el(doctree.KindBulletList, items...)
}

func enumerated(items ...*doctree.Node) *doctree.Node {
	return el(doctree.KindEnumeratedList, items...).
		WithAttr("enumtype", "arabic").
		WithAttr("prefix", "").
		WithAttr("suffix", ".")
}

func entry(s string) *doctree.Node {
	return el(doctree.KindEntry, para(txt(s)))
}

func row(cells ...string) *doctree.Node {
	r := el(doctree.KindRow)
	for _, c := range cells {
		r.Append(entry(c))
	}
	return r
}

func table(head *doctree.Node, body ...*doctree.Node) *doctree.Node {
	tg := el(doctree.KindTGroup).WithAttr("cols", "2").Append(
		el(doctree.KindColSpec).WithAttr("colwidth", "10"),
		el(doctree.KindColSpec).WithAttr("colwidth", "20"),
	)
	if head != nil {
		tg.Append(el(doctree.KindTHead, head))
	}
	tg.Append(el(doctree.KindTBody, body...))
	return el(doctree.KindTable, tg)
}

func describe(u unit) string {
	switch u.op {
	case "list":
		enum := ""
		if u.item.Enum != nil {
			enum = fmt.Sprintf(" enum=%s/%s/%d", u.item.Enum.Prefix, u.item.Enum.Type, u.item.Enum.Start)
		}
		return fmt.Sprintf("list(%q style=%s level=%d id=%d cont=%v%s)",
			u.text(), u.item.Style, u.item.Level, u.item.NumberingID, u.item.Continuation, enum)
	case "paragraph":
		return fmt.Sprintf("paragraph(%q style=%q level=%d)", u.text(), u.style, u.level)
	case "heading":
		return fmt.Sprintf("heading(%q level=%d)", u.text(), u.level)
	}
	return u.op
}
