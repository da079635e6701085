package translate

import (
	"strconv"

	"go.uber.org/zap"

	"dxw/convert/model"
	"dxw/doctree"
)

// block identifies structural context currently open.
type block int

const (
	blockBullet block = iota
	blockNumber
	blockListItem
	blockAdmonition
	blockCell
)

func (b block) String() string {
	switch b {
	case blockBullet:
		return "Bullet"
	case blockNumber:
		return "Number"
	case blockListItem:
		return "ListItem"
	case blockAdmonition:
		return "Admonition"
	case blockCell:
		return "Cell"
	}
	return "block(" + strconv.Itoa(int(b)) + ")"
}

// listState tracks numbering across nested and sibling lists.
type listState struct {
	level    int
	activeID int
	maxID    int
	styles   []string
	enums    []model.Enumeration
	// items holds index of the first frame of every open list item.
	items []int
}

func (t *Translator) pushBlock(b block) {
	t.blocks = append(t.blocks, b)
}

func (t *Translator) popBlock() {
	if len(t.blocks) == 0 {
		t.log.Debug("Block context underflow")
		return
	}
	t.blocks = t.blocks[:len(t.blocks)-1]
}

// peekBlock returns context n levels below the top (0 is the top).
func (t *Translator) peekBlock(n int) (block, bool) {
	i := len(t.blocks) - 1 - n
	if i < 0 {
		return 0, false
	}
	return t.blocks[i], true
}

func (t *Translator) numberedListOpen() bool {
	for _, b := range t.blocks {
		if b == blockNumber {
			return true
		}
	}
	return false
}

// inCell reports whether innermost container of the current position is a
// table cell, whose text is collected by the table rather than emitted.
func (t *Translator) inCell() bool {
	for i := len(t.blocks) - 1; i >= 0; i-- {
		switch t.blocks[i] {
		case blockCell:
			return true
		case blockAdmonition:
			return false
		}
	}
	return false
}

func (t *Translator) itemBase() int {
	if len(t.lists.items) == 0 {
		return 0
	}
	return t.lists.items[len(t.lists.items)-1]
}

// flushPendingItem finalizes list item whose content precedes a nested list
// or a block such as table, literal block, figure or admonition.
func (t *Translator) flushPendingItem() {
	if b, ok := t.peekBlock(0); !ok || b != blockListItem {
		return
	}
	t.flushItem()
}

// flushItem emits frames of the innermost list item as list item units and
// leaves single empty frame for the rest of the item. Frames below the item
// belong to enclosing containers and are kept. Whether item is numbered is
// decided by the context right below the item.
func (t *Translator) flushItem() {
	if t.inCell() {
		return
	}
	numbered := false
	if b, ok := t.peekBlock(1); ok && b == blockNumber {
		numbered = true
	}

	style := model.ListStyleBullet
	if len(t.lists.styles) > 0 {
		style = t.lists.styles[len(t.lists.styles)-1]
	}

	first := true
	for _, f := range t.frames.cut(t.itemBase()) {
		if len(f) == 0 {
			continue
		}
		item := model.ListItem{
			Fragments:    f,
			Style:        style,
			Level:        t.lists.level,
			Continuation: !first,
		}
		if first && numbered {
			item.NumberingID = t.lists.activeID
			if len(t.lists.enums) > 0 {
				enum := t.lists.enums[len(t.lists.enums)-1]
				item.Enum = &enum
			}
		}
		first = false
		t.comp.ListItem(item)
	}
	t.frames.open()
}

func (t *Translator) enterBulletList(*doctree.Node) (Action, error) {
	t.flushPendingAdmonition()
	t.push()
	t.flushPendingItem()

	t.pushBlock(blockBullet)
	t.lists.level++
	t.lists.styles = append(t.lists.styles, model.ListStyleBullet)
	return Descend, nil
}

func (t *Translator) exitBulletList(*doctree.Node) error {
	t.popBlock()
	t.popListStyle()
	t.lists.level = max(t.lists.level-1, 0)
	return nil
}

func (t *Translator) enterEnumeratedList(n *doctree.Node) (Action, error) {
	t.flushPendingAdmonition()
	t.push()
	t.flushPendingItem()

	enum := model.Enumeration{
		Prefix: n.AttrOr("prefix", "") + "%1" + n.AttrOr("suffix", ""),
		Type:   n.AttrOr("enumtype", model.EnumArabic),
		Start:  1,
	}
	if v, ok := n.Attr("start"); ok {
		start, err := strconv.Atoi(v)
		if err != nil {
			t.log.Warn("Invalid start for enumerated list, using 1", zap.String("start", v), zap.Error(err))
		} else {
			enum.Start = start
		}
	}

	if t.numberedListOpen() {
		t.lists.activeID++
	} else {
		t.lists.activeID = t.lists.maxID + 1
	}

	t.pushBlock(blockNumber)
	t.lists.styles = append(t.lists.styles, model.ListStyleNumber)
	t.lists.enums = append(t.lists.enums, enum)
	t.lists.level++
	t.lists.maxID++
	return Descend, nil
}

func (t *Translator) exitEnumeratedList(*doctree.Node) error {
	t.popBlock()
	t.popListStyle()
	if len(t.lists.enums) > 0 {
		t.lists.enums = t.lists.enums[:len(t.lists.enums)-1]
	}
	t.lists.activeID--
	t.lists.level = max(t.lists.level-1, 0)
	return nil
}

func (t *Translator) popListStyle() {
	if len(t.lists.styles) > 0 {
		t.lists.styles = t.lists.styles[:len(t.lists.styles)-1]
	}
}

func (t *Translator) enterListItem(*doctree.Node) (Action, error) {
	t.pushBlock(blockListItem)
	t.push()
	t.lists.items = append(t.lists.items, t.frames.height()-1)
	return Descend, nil
}

func (t *Translator) exitListItem(*doctree.Node) error {
	t.flushItem()
	base := t.itemBase()
	if len(t.lists.items) > 0 {
		t.lists.items = t.lists.items[:len(t.lists.items)-1]
	}
	if !t.inCell() {
		t.frames.cut(base)
	}
	t.popBlock()
	return nil
}
