package compose

import (
	"fmt"
	"net/url"

	"github.com/weftkit/weft/pkg/dom"
)

// attrRelativeTo marks a skeleton element whose descendant anchors should
// resolve relative to the given URI. A fixed post-pass independent of
// recursive expansion.
const attrRelativeTo = "data-relative-to"

func rebaseLinks(root *dom.Node) error {
	var failure error
	root.Walk(func(n *dom.Node) bool {
		if failure != nil || n.Type != dom.ElementNode {
			return failure == nil
		}
		baseRaw, ok := n.Attr(attrRelativeTo)
		if !ok {
			return true
		}
		base, err := url.Parse(baseRaw)
		if err != nil {
			failure = fmt.Errorf("compose: rebase links against %q: %w", baseRaw, err)
			return false
		}
		n.Walk(func(a *dom.Node) bool {
			if failure != nil {
				return false
			}
			if a.Type != dom.ElementNode || a.Tag != "a" {
				return true
			}
			href, ok := a.Attr("href")
			if !ok {
				return true
			}
			ref, err := url.Parse(href)
			if err != nil {
				failure = fmt.Errorf("compose: rebase link %q: %w", href, err)
				return false
			}
			a.SetAttr("href", base.ResolveReference(ref).String())
			return true
		})
		return failure == nil
	})
	return failure
}
