package doctree

import "strings"

// Node is a single element of the content tree. Trees are built once by a
// loader and treated as read-only afterwards.
type Node struct {
	Kind     Kind
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*Node
}

// NewElement creates element node of the given kind.
func NewElement(k Kind, children ...*Node) *Node {
	return &Node{Kind: k, Name: k.String(), Children: children}
}

// NewText creates text leaf.
func NewText(s string) *Node {
	return &Node{Kind: KindText, Name: KindText.String(), Text: s}
}

// WithAttr sets attribute and returns the node for chaining.
func (n *Node) WithAttr(name, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
	return n
}

// Append adds children and returns the node for chaining.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Attr returns attribute value and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil || n.Attrs == nil {
		return "", false
	}
	v, ok := n.Attrs[name]
	return v, ok
}

// AttrOr returns attribute value or def when attribute is absent.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// AsText returns concatenated text of the whole subtree.
func (n *Node) AsText() string {
	var sb strings.Builder
	n.collectText(&sb)
	return sb.String()
}

func (n *Node) collectText(sb *strings.Builder) {
	if n == nil {
		return
	}
	if n.Kind == KindText {
		sb.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		c.collectText(sb)
	}
}

// Walk calls fn for n and all its descendants in document order. When fn
// returns false children of the current node are skipped.
func (n *Node) Walk(fn func(*Node, int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}
