package translate

import (
	"strings"

	"go.uber.org/zap"

	"dxw/convert/model"
	"dxw/doctree"
)

// tableState is row-major cell matrix of the table being assembled. Column
// widths and body separators are kept aside so rows hold cells only.
type tableState struct {
	widths    []string
	rows      [][]string
	bodyStart []int
	// cellBase is frame stack height at cell entry.
	cellBase int
}

func (t *Translator) enterTable(n *doctree.Node) (Action, error) {
	if t.table != nil {
		return SkipSubtree, t.structural(n, ErrNestedTable)
	}
	t.flushPendingItem()
	t.push()
	t.table = &tableState{}
	return Descend, nil
}

func (t *Translator) exitTable(*doctree.Node) error {
	if t.table == nil {
		return nil
	}
	rows := t.table.rows
	if rows == nil {
		rows = [][]string{}
	}
	t.log.Debug("Table assembled", zap.Int("rows", len(rows)), zap.Strings("widths", t.table.widths))
	t.comp.Table(rows)
	t.table = nil
	t.pop(nil)
	return nil
}

func (t *Translator) enterColSpec(n *doctree.Node) (Action, error) {
	if t.table != nil {
		t.table.widths = append(t.table.widths, n.AttrOr("colwidth", ""))
	}
	return SkipSubtree, nil
}

func (t *Translator) enterTBody(*doctree.Node) (Action, error) {
	if t.table != nil {
		t.table.bodyStart = append(t.table.bodyStart, len(t.table.rows))
	}
	return Descend, nil
}

func (t *Translator) enterRow(n *doctree.Node) (Action, error) {
	if t.table == nil {
		t.log.Debug("Row outside of table, ignoring structure", zap.String("path", t.pathString()))
		return Descend, nil
	}
	t.table.rows = append(t.table.rows, []string{})
	return Descend, nil
}

func (t *Translator) enterEntry(n *doctree.Node) (Action, error) {
	_, rows := n.Attr("morerows")
	_, cols := n.Attr("morecols")
	if rows || cols {
		return SkipSubtree, t.structural(n, ErrUnsupportedSpan)
	}
	if t.table == nil {
		return Descend, nil
	}
	t.table.cellBase = t.frames.height()
	t.pushBlock(blockCell)
	t.frames.open()
	return Descend, nil
}

func (t *Translator) exitEntry(*doctree.Node) error {
	if t.table == nil {
		return nil
	}
	t.popBlock()

	var parts []string
	for _, f := range t.frames.cut(t.table.cellBase) {
		if len(f) == 0 {
			continue
		}
		parts = append(parts, model.PlainText(f))
	}
	text := strings.Join(parts, "\n")

	if len(t.table.rows) == 0 {
		t.table.rows = append(t.table.rows, []string{})
	}
	last := len(t.table.rows) - 1
	t.table.rows[last] = append(t.table.rows[last], text)
	return nil
}
