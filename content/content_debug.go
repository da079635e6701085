package content

import (
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"dxw/doctree"
	"dxw/utils/debug"
)

// String returns a readable dump of the whole Content starting with summary
// and node statistics. It exists solely for manual inspection during debugging.
func (c *Content) String() string {
	if c == nil {
		return "<nil Content>"
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "Source: %q format[%s]", c.SrcName, c.Format)
	tw.Line(0, "Title: %q", c.Title)
	tw.Line(0, "ID: %s", c.ID)
	if c.BaseDir != "" {
		tw.Line(0, "Base directory: %q", c.BaseDir)
	}

	counts := make(map[string]int)
	c.Tree.Walk(func(n *doctree.Node, _ int) bool {
		name := n.Kind.String()
		if n.Kind == doctree.KindUnknown {
			name = "unknown(" + n.Name + ")"
		}
		counts[name]++
		return true
	})
	if len(counts) > 0 {
		tw.Line(0, "Nodes index: %d kinds", len(counts))
		keys := slices.Collect(maps.Keys(counts))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			tw.Line(1, "Kind[%s] count[%d]", k, counts[k])
		}
	}

	return tw.String() + "\n" + c.Tree.String()
}
