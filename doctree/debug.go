package doctree

import "dxw/utils/debug"

// String returns a readable dump of the subtree. It exists solely for manual
// inspection during debugging.
func (n *Node) String() string {
	if n == nil {
		return "<nil Node>"
	}
	tw := debug.NewTreeWriter()
	n.Walk(func(node *Node, depth int) bool {
		switch node.Kind {
		case KindText:
			tw.TextBlock(depth, "text", node.Text)
		case KindUnknown:
			tw.Element(depth, "unknown("+node.Name+")", node.Attrs)
		default:
			tw.Element(depth, node.Kind.String(), node.Attrs)
		}
		return true
	})
	return tw.String()
}
