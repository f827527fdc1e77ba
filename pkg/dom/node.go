package dom

import "strings"

// NodeType discriminates the node variants held in one tree.
type NodeType int

const (
	// ElementNode is a tagged element with attributes and children.
	ElementNode NodeType = iota
	// TextNode is character data that is escaped on output.
	TextNode
	// RawNode is verbatim character data (raw-tag bodies, doctypes).
	RawNode
	// CodeNode is an inline `<% %>` payload evaluated during expansion.
	CodeNode
	// CommentNode is a markup comment.
	CommentNode
	// FragmentNode is a transient container with no tag identity; its
	// children are spliced into a parent in place of a single node.
	FragmentNode
)

// CodeKind distinguishes the three inline marker forms.
type CodeKind int

const (
	// CodeExpr is `<%= expr %>`: evaluate and insert as escaped text.
	CodeExpr CodeKind = iota
	// CodeHTML is `<%=HTML expr %>`: evaluate and insert structurally or
	// as unescaped markup.
	CodeHTML
	// CodeStmt is `<% stmt %>`: evaluate for side effect, emit nothing.
	CodeStmt
)

// Attr is a single name/value attribute pair. Order is preserved.
type Attr struct {
	Key string
	Val string
}

// Node is one tree node. A node is owned by at most one parent; mutation
// happens through whole-node replacement or child-list splicing, never by
// aliasing a subtree into two parents.
type Node struct {
	Type     NodeType
	Tag      string
	Attrs    []Attr
	Children []*Node
	Parent   *Node

	// Text holds character data for TextNode, RawNode and CommentNode.
	Text string
	// Code holds the marker payload for CodeNode.
	Code     string
	CodeKind CodeKind
}

// NewElement returns an element node with the given tag.
func NewElement(tag string, attrs ...Attr) *Node {
	return &Node{Type: ElementNode, Tag: tag, Attrs: attrs}
}

// NewText returns a text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

// NewRaw returns a verbatim markup node.
func NewRaw(markup string) *Node {
	return &Node{Type: RawNode, Text: markup}
}

// NewFragment returns a fragment holding the given children.
func NewFragment(children ...*Node) *Node {
	f := &Node{Type: FragmentNode}
	for _, c := range children {
		f.AppendChild(c)
	}
	return f
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrDefault returns the named attribute value or a fallback.
func (n *Node) AttrDefault(key, fallback string) string {
	if v, ok := n.Attr(key); ok {
		return v
	}
	return fallback
}

// SetAttr sets the named attribute, replacing an existing value in place
// and otherwise appending to preserve document order.
func (n *Node) SetAttr(key, val string) {
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs[i].Val = val
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
}

// DelAttr removes the named attribute if present.
func (n *Node) DelAttr(key string) {
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// AppendChild adds c as the last child of n, detaching it from any
// previous parent first.
func (n *Node) AppendChild(c *Node) {
	if c == nil {
		return
	}
	c.Detach()
	c.Parent = n
	n.Children = append(n.Children, c)
}

// childIndex returns the position of c in n's child list, or -1.
func (n *Node) childIndex(c *Node) int {
	for i, child := range n.Children {
		if child == c {
			return i
		}
	}
	return -1
}

// Detach removes n from its parent's child list, leaving n parentless.
func (n *Node) Detach() {
	p := n.Parent
	if p == nil {
		return
	}
	if i := p.childIndex(n); i >= 0 {
		p.Children = append(p.Children[:i], p.Children[i+1:]...)
	}
	n.Parent = nil
}

// ReplaceWith splices the replacement nodes into n's parent in place of n.
// Fragment replacements are flattened so the fragment itself never
// persists in the tree. A no-op when n has no parent.
func (n *Node) ReplaceWith(repl ...*Node) {
	p := n.Parent
	if p == nil {
		return
	}
	i := p.childIndex(n)
	if i < 0 {
		return
	}
	flat := flatten(repl)
	for _, r := range flat {
		if r.Parent != nil && r.Parent != p {
			r.Detach()
		}
		r.Parent = p
	}
	rest := append([]*Node{}, p.Children[i+1:]...)
	p.Children = append(p.Children[:i], append(flat, rest...)...)
	n.Parent = nil
}

func flatten(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, r := range nodes {
		if r == nil {
			continue
		}
		if r.Type == FragmentNode {
			out = append(out, flatten(r.Children)...)
			continue
		}
		out = append(out, r)
	}
	return out
}

// Unwrap replaces n with its own children, preserving their order.
func (n *Node) Unwrap() {
	children := append([]*Node{}, n.Children...)
	n.Children = nil
	n.ReplaceWith(children...)
}

// Clone returns a deep copy of n's subtree. The copy has no parent.
func (n *Node) Clone() *Node {
	c := &Node{
		Type:     n.Type,
		Tag:      n.Tag,
		Text:     n.Text,
		Code:     n.Code,
		CodeKind: n.CodeKind,
	}
	if len(n.Attrs) > 0 {
		c.Attrs = append([]Attr{}, n.Attrs...)
	}
	for _, child := range n.Children {
		c.AppendChild(child.Clone())
	}
	return c
}

// Walk visits n and every descendant in document order. Returning false
// from fn prunes the subtree below the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range append([]*Node{}, n.Children...) {
		c.Walk(fn)
	}
}

// Find returns the first node in document order satisfying pred, or nil.
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if pred(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindTag returns the first descendant element (or n itself) with the
// given tag name, or nil.
func (n *Node) FindTag(tag string) *Node {
	return n.Find(func(c *Node) bool {
		return c.Type == ElementNode && c.Tag == tag
	})
}

// FindID returns the first element carrying id=value, or nil.
func (n *Node) FindID(value string) *Node {
	return n.Find(func(c *Node) bool {
		if c.Type != ElementNode {
			return false
		}
		id, ok := c.Attr("id")
		return ok && id == value
	})
}

// InnerText concatenates the unescaped character data beneath n.
func (n *Node) InnerText() string {
	var b strings.Builder
	n.Walk(func(c *Node) bool {
		if c.Type == TextNode || c.Type == RawNode {
			b.WriteString(c.Text)
		}
		return true
	})
	return b.String()
}
