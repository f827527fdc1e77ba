package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Render writes the markup for n's subtree to w. Text and attribute
// values are escaped; raw nodes are written verbatim; void elements emit
// no end tag. Code nodes round-trip to their original marker form.
func Render(w io.Writer, n *Node) error {
	sw := &stickyWriter{w: w}
	renderNode(sw, n)
	return sw.err
}

// OuterHTML returns the serialized markup for n's subtree.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	_ = Render(&b, n)
	return b.String()
}

// InnerHTML returns the serialized markup for n's children only.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	sw := &stickyWriter{w: &b}
	for _, c := range n.Children {
		renderNode(sw, c)
	}
	return b.String()
}

type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) WriteString(str string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, str)
}

func renderNode(w *stickyWriter, n *Node) {
	switch n.Type {
	case FragmentNode:
		for _, c := range n.Children {
			renderNode(w, c)
		}
	case ElementNode:
		w.WriteString("<")
		w.WriteString(n.Tag)
		for _, a := range n.Attrs {
			w.WriteString(" ")
			w.WriteString(a.Key)
			w.WriteString(`="`)
			w.WriteString(html.EscapeString(a.Val))
			w.WriteString(`"`)
		}
		w.WriteString(">")
		if IsVoid(n.Tag) && len(n.Children) == 0 {
			return
		}
		for _, c := range n.Children {
			renderNode(w, c)
		}
		w.WriteString("</")
		w.WriteString(n.Tag)
		w.WriteString(">")
	case TextNode:
		w.WriteString(html.EscapeString(n.Text))
	case RawNode:
		w.WriteString(n.Text)
	case CommentNode:
		w.WriteString("<!--")
		w.WriteString(n.Text)
		w.WriteString("-->")
	case CodeNode:
		switch n.CodeKind {
		case CodeExpr:
			w.WriteString("<%= ")
		case CodeHTML:
			w.WriteString("<%=HTML ")
		default:
			w.WriteString("<% ")
		}
		w.WriteString(n.Code)
		w.WriteString(" %>")
	}
}
