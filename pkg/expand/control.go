package expand

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/weftkit/weft/pkg/dom"
	"github.com/weftkit/weft/pkg/form"
	"github.com/weftkit/weft/pkg/scope"
	"github.com/weftkit/weft/pkg/template"
)

// Control-flow markup consumed by the engine.
const (
	tagIfTrue         = "if-true"
	tagOrElse         = "or-else"
	tagForEach        = "for-each"
	tagRenderTemplate = "render-template"
	tagHiddenFormData = "hidden-form-data"
	tagScript         = "script"
)

// childPass walks parent's children in original document order over a
// stable snapshot, so replacement by multi-node fragments never skips or
// duplicates siblings. The prior-outcome flag pairing or-else with the
// most recently evaluated if-true/for-each sibling is scoped to this one
// pass: reset on entry, never inherited by recursive calls.
func (e *Engine) childPass(parent *dom.Node, sc *scope.Scope) error {
	snapshot := append([]*dom.Node{}, parent.Children...)
	prior := false

	for _, child := range snapshot {
		var err error
		switch {
		case child.Type == dom.CodeNode:
			err = e.expandCode(child, sc)
		case child.Type != dom.ElementNode:
			continue
		case child.Tag == tagIfTrue:
			err = e.expandIfTrue(child, sc, &prior)
		case child.Tag == tagOrElse:
			err = e.expandOrElse(child, sc, prior)
		case child.Tag == tagForEach:
			err = e.expandForEach(child, sc, &prior)
		case child.Tag == tagRenderTemplate:
			err = e.expandRenderTemplate(child, sc)
		case child.Tag == tagHiddenFormData:
			err = e.expandHiddenFormData(child, sc)
		case child.Tag == tagScript:
			err = e.expandScript(child, sc)
		default:
			if fn, ok := e.translators.Lookup(child.Tag); ok {
				err = e.expandTranslated(child, fn, sc)
			} else {
				err = e.Expand(child, sc)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// expandIfTrue evaluates cond as a boolean. True expands the element's
// children against the same scope and splices them in place; false
// discards element and children. Either way the outcome feeds or-else
// pairing.
func (e *Engine) expandIfTrue(el *dom.Node, sc *scope.Scope, prior *bool) error {
	cond, ok := el.Attr("cond")
	if !ok {
		return malformed("if-true requires a cond attribute")
	}
	v, err := e.eval.Evaluate(cond, sc)
	if err != nil {
		return err
	}
	outcome := scope.Truthy(v)
	*prior = outcome
	if !outcome {
		el.Detach()
		return nil
	}
	if err := e.childPass(el, sc); err != nil {
		return err
	}
	el.Unwrap()
	return nil
}

// expandOrElse renders its children only when the most recently evaluated
// conditional or loop among these siblings produced no output.
func (e *Engine) expandOrElse(el *dom.Node, sc *scope.Scope, prior bool) error {
	if prior {
		el.Detach()
		return nil
	}
	if err := e.childPass(el, sc); err != nil {
		return err
	}
	el.Unwrap()
	return nil
}

// expandForEach iterates the over expression, expanding a clone of the
// element's subtree per item against a child scope binding as (and index
// when given), and splices the expanded children in iteration order. Zero
// items discard the element and mark the outcome false.
func (e *Engine) expandForEach(el *dom.Node, sc *scope.Scope, prior *bool) error {
	over, ok := el.Attr("over")
	if !ok {
		return malformed("for-each requires an over attribute")
	}
	as, ok := el.Attr("as")
	if !ok {
		return malformed("for-each requires an as attribute")
	}
	indexName, _ := el.Attr("index")

	v, err := e.eval.Evaluate(over, sc)
	if err != nil {
		return err
	}
	pairs := scope.Pairs(v)
	if len(pairs) == 0 {
		*prior = false
		el.Detach()
		return nil
	}
	*prior = true

	var out []*dom.Node
	for _, pair := range pairs {
		iter := scope.NewChild(sc)
		iter.Set(as, pair.Value)
		if indexName != "" {
			iter.Set(indexName, pair.Key)
		}
		clone := el.Clone()
		if err := e.childPass(clone, iter); err != nil {
			return err
		}
		out = append(out, append([]*dom.Node{}, clone.Children...)...)
	}
	el.ReplaceWith(out...)
	return nil
}

// expandRenderTemplate loads and parses the named partial, expands it
// against a child scope (binding data to the parsed JSON literal when
// given), and splices the expanded children in place of the element.
// Loader and parse failures are fatal.
func (e *Engine) expandRenderTemplate(el *dom.Node, sc *scope.Scope) error {
	file, ok := el.Attr("file")
	if !ok {
		return malformed("render-template requires a file attribute")
	}
	if e.loader == nil {
		return fmt.Errorf("expand: render-template %q: no loader configured: %w", file, template.ErrNotFound)
	}
	e.logger.Debug("expanding partial", "template", file)

	markup, err := e.loader.LoadMarkup(file)
	if err != nil {
		return fmt.Errorf("expand: render-template %q: %w", file, err)
	}
	tree, err := dom.Parse(markup, e.rawTags...)
	if err != nil {
		return fmt.Errorf("expand: render-template %q: %w", file, err)
	}

	child := scope.NewChild(sc)
	if data, ok := el.Attr("data"); ok {
		var payload any
		if err := json.Unmarshal([]byte(data), &payload); err != nil {
			return &MalformedTemplateError{Detail: fmt.Sprintf("render-template %q data attribute", file), Err: err}
		}
		child.Set("data", payload)
	}

	if err := e.childPass(tree, child); err != nil {
		return err
	}
	el.ReplaceWith(tree)
	return nil
}

// expandHiddenFormData evaluates from and splices its flattened form-field
// nodes in place of the element.
func (e *Engine) expandHiddenFormData(el *dom.Node, sc *scope.Scope) error {
	from, ok := el.Attr("from")
	if !ok {
		return malformed("hidden-form-data requires a from attribute")
	}
	name, ok := el.Attr("name")
	if !ok {
		return malformed("hidden-form-data requires a name attribute")
	}
	v, err := e.eval.Evaluate(from, sc)
	if err != nil {
		return err
	}
	frag := dom.NewFragment()
	form.Populate(frag, v, name)
	el.ReplaceWith(frag)
	return nil
}

// expandCode resolves one inline code node: expressions insert escaped
// text, HTML expressions insert structurally or as raw markup, statements
// run for side effect and emit nothing.
func (e *Engine) expandCode(n *dom.Node, sc *scope.Scope) error {
	v, err := e.eval.Evaluate(n.Code, sc)
	if err != nil {
		return err
	}
	switch n.CodeKind {
	case dom.CodeStmt:
		n.Detach()
	case dom.CodeHTML:
		if node, ok := v.(*dom.Node); ok {
			n.ReplaceWith(node)
			return nil
		}
		markup := scope.Text(v)
		if e.policy != nil {
			markup = e.policy.Sanitize(markup)
		}
		n.ReplaceWith(dom.NewRaw(markup))
	default:
		n.ReplaceWith(dom.NewText(scope.Text(v)))
	}
	return nil
}

// expandScript substitutes `<%= %>` markers in the script body with
// JSON-safe encodings of their values, since the output lands inside a
// script rather than in markup text. All other body text is untouched.
func (e *Engine) expandScript(el *dom.Node, sc *scope.Scope) error {
	if err := e.attributePass(el, sc); err != nil {
		return err
	}
	for _, child := range el.Children {
		if child.Type != dom.RawNode || !dom.HasMarkers(child.Text) {
			continue
		}
		segs, err := dom.SplitMarkers(child.Text)
		if err != nil {
			return &MalformedTemplateError{Detail: "script body", Err: err}
		}
		var b strings.Builder
		for _, seg := range segs {
			if !seg.IsCode {
				b.WriteString(seg.Literal)
				continue
			}
			if seg.Kind != dom.CodeExpr {
				b.WriteString(markerLiteral(seg))
				continue
			}
			v, err := e.eval.Evaluate(seg.Code, sc)
			if err != nil {
				return err
			}
			enc, err := scope.JSONText(v)
			if err != nil {
				return err
			}
			b.WriteString(enc)
		}
		child.Text = b.String()
	}
	return e.onRender(el, sc)
}

// markerLiteral re-emits a code segment in its original marker form.
func markerLiteral(seg dom.Segment) string {
	switch seg.Kind {
	case dom.CodeHTML:
		return "<%=HTML " + seg.Code + " %>"
	case dom.CodeExpr:
		return "<%= " + seg.Code + " %>"
	default:
		return "<% " + seg.Code + " %>"
	}
}

// expandTranslated runs a registered embedded-tag translator. A nil
// replacement removes the element. With the rescan flag set, a plain text
// replacement gets marker substitution over its text while a structural
// replacement is expanded recursively with the current scope.
func (e *Engine) expandTranslated(el *dom.Node, fn TranslateFunc, sc *scope.Scope) error {
	attrs := make(map[string]string, len(el.Attrs))
	for _, a := range el.Attrs {
		attrs[a.Key] = a.Val
	}

	repl, rescan, err := fn(el.InnerHTML(), attrs)
	if err != nil {
		return fmt.Errorf("expand: translate %q: %w", el.Tag, err)
	}
	if repl == nil {
		el.Detach()
		return nil
	}
	if rescan {
		if repl.Type == dom.TextNode {
			out, err := e.substituteMarkers(repl.Text, sc)
			if err != nil {
				return err
			}
			repl.Text = out
		} else if err := e.Expand(repl, sc); err != nil {
			return err
		}
	}
	el.ReplaceWith(repl)
	return nil
}
