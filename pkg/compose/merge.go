package compose

import (
	"strings"

	"github.com/weftkit/weft/pkg/dom"
)

const (
	tagMain             = "main"
	tagTitle            = "title"
	tagDocumentFragment = "document-fragment"
	attrBodyClass       = "body-class"
)

// merge performs the fixed structural merge of an expanded content tree
// into an expanded skeleton, in this exact order: body-class transfer,
// main replacement, head title overwrite, id-based replacement, then
// document-fragment unwrapping.
func merge(skeleton, content *dom.Node) error {
	contentMain := topLevel(content, func(n *dom.Node) bool { return n.Tag == tagMain })

	if contentMain != nil {
		if class, ok := contentMain.Attr(attrBodyClass); ok {
			body := skeleton.FindTag("body")
			if body == nil {
				return &StructuralMergeError{Target: "body element"}
			}
			appendClass(body, class)
			contentMain.DelAttr(attrBodyClass)
		}

		target := skeleton.FindTag(tagMain)
		if target == nil {
			return &StructuralMergeError{Target: "main element"}
		}
		target.ReplaceWith(contentMain)
	}

	if contentTitle := topLevel(content, func(n *dom.Node) bool { return n.Tag == tagTitle }); contentTitle != nil {
		head := skeleton.FindTag("head")
		var target *dom.Node
		if head != nil {
			target = head.FindTag(tagTitle)
		}
		if target == nil {
			return &StructuralMergeError{Target: "head title element"}
		}
		children := append([]*dom.Node{}, contentTitle.Children...)
		target.Children = nil
		for _, c := range children {
			target.AppendChild(c)
		}
		contentTitle.Detach()
	}

	for _, el := range append([]*dom.Node{}, content.Children...) {
		if el.Type != dom.ElementNode {
			continue
		}
		id, ok := el.Attr("id")
		if !ok {
			continue
		}
		target := skeleton.FindID(id)
		if target == nil {
			return &StructuralMergeError{Target: "element with id " + id}
		}
		target.ReplaceWith(el)
	}

	var fragments []*dom.Node
	skeleton.Walk(func(n *dom.Node) bool {
		if n.Type == dom.ElementNode && n.Tag == tagDocumentFragment {
			fragments = append(fragments, n)
		}
		return true
	})
	for _, f := range fragments {
		f.Unwrap()
	}

	return nil
}

// topLevel returns the first direct element child of root matching pred.
func topLevel(root *dom.Node, pred func(*dom.Node) bool) *dom.Node {
	for _, c := range root.Children {
		if c.Type == dom.ElementNode && pred(c) {
			return c
		}
	}
	return nil
}

func appendClass(el *dom.Node, class string) {
	class = strings.TrimSpace(class)
	if class == "" {
		return
	}
	if existing, ok := el.Attr("class"); ok && strings.TrimSpace(existing) != "" {
		el.SetAttr("class", strings.TrimSpace(existing)+" "+class)
		return
	}
	el.SetAttr("class", class)
}
