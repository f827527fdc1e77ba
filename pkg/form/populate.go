// Package form flattens nested dynamic values into flat form-field
// bindings, mirroring conventional HTML form encoding of nested data:
// object-shaped values fan out into bracket-notation field names while
// scalars bind directly.
package form

import (
	"strings"

	"github.com/weftkit/weft/pkg/dom"
	"github.com/weftkit/weft/pkg/scope"
)

// wildcard inside a field name is replaced by the child key instead of
// appending bracket notation.
const wildcard = "%"

// Populate flattens value into form rooted at fieldName. Object-shaped
// values first bind fieldName itself to empty, guaranteeing a placeholder
// entry even when no scalar child exists, then recurse per child with a
// derived name. Scalars bind their string form directly.
func Populate(form *dom.Node, value any, fieldName string) {
	if form == nil || fieldName == "" {
		return
	}
	if scope.IsIterable(value) {
		setField(form, fieldName, "")
		for _, pair := range scope.Pairs(value) {
			Populate(form, pair.Value, childName(fieldName, scope.Text(pair.Key)))
		}
		return
	}
	setField(form, fieldName, scope.Text(value))
}

func childName(fieldName, key string) string {
	if strings.Contains(fieldName, wildcard) {
		return strings.Replace(fieldName, wildcard, key, 1)
	}
	return fieldName + "[" + key + "]"
}

// setField binds name to value on form: an existing control with that
// name is updated in place, otherwise a hidden input is appended so the
// binding always materializes.
func setField(form *dom.Node, name, value string) {
	control := form.Find(func(n *dom.Node) bool {
		if n.Type != dom.ElementNode {
			return false
		}
		switch n.Tag {
		case "input", "select", "textarea":
			got, ok := n.Attr("name")
			return ok && got == name
		}
		return false
	})

	if control == nil {
		form.AppendChild(dom.NewElement("input",
			dom.Attr{Key: "type", Val: "hidden"},
			dom.Attr{Key: "name", Val: name},
			dom.Attr{Key: "value", Val: value},
		))
		return
	}

	switch control.Tag {
	case "textarea":
		control.Children = nil
		control.AppendChild(dom.NewText(value))
	case "select":
		selectOption(control, value)
	default:
		setInput(control, value)
	}
}

func setInput(input *dom.Node, value string) {
	switch input.AttrDefault("type", "text") {
	case "checkbox", "radio":
		if input.AttrDefault("value", "on") == value {
			input.SetAttr("checked", "checked")
		} else {
			input.DelAttr("checked")
		}
	default:
		input.SetAttr("value", value)
	}
}

func selectOption(sel *dom.Node, value string) {
	sel.Walk(func(n *dom.Node) bool {
		if n.Type == dom.ElementNode && n.Tag == "option" {
			optValue := n.AttrDefault("value", n.InnerText())
			if optValue == value {
				n.SetAttr("selected", "selected")
			} else {
				n.DelAttr("selected")
			}
		}
		return true
	})
}
