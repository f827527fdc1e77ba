// Package expand implements the recursive template expansion engine: it
// rewrites one element tree in place against one scope chain, evaluating
// embedded expressions, executing control-flow markup, and splicing
// multi-node replacements through transient fragments. Any failure aborts
// the whole render; there is no partial output.
package expand

import (
	"context"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"

	"github.com/weftkit/weft/pkg/dom"
	"github.com/weftkit/weft/pkg/eval"
	"github.com/weftkit/weft/pkg/form"
	"github.com/weftkit/weft/pkg/scope"
	"github.com/weftkit/weft/pkg/template"
)

// onrender is reserved on any element: its source is evaluated as a
// statement after the element's children have expanded.
const attrOnRender = "onrender"

// Option customises the engine configuration.
type Option func(*Engine)

// WithLoader injects the loader used to resolve render-template partials.
func WithLoader(loader template.Loader) Option {
	return func(e *Engine) {
		e.loader = loader
	}
}

// WithEvaluator injects a custom expression evaluator.
func WithEvaluator(ev eval.Evaluator) Option {
	return func(e *Engine) {
		e.eval = ev
	}
}

// WithTranslators injects the embedded-tag translator set.
func WithTranslators(set *TranslatorSet) Option {
	return func(e *Engine) {
		e.translators = set
	}
}

// WithRawTags adds tag names whose bodies parse verbatim when the engine
// loads partials.
func WithRawTags(tags ...string) Option {
	return func(e *Engine) {
		e.rawTags = append(e.rawTags, tags...)
	}
}

// WithUnsafePolicy sanitizes markup inserted through `<%=HTML %>` with the
// given bluemonday policy. Off by default: trusted templates insert their
// payloads verbatim.
func WithUnsafePolicy(policy *bluemonday.Policy) Option {
	return func(e *Engine) {
		e.policy = policy
	}
}

// WithLogger injects a structured logger for per-template debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine rewrites element trees in place. A configured Engine is
// read-only and safe to share across concurrent renders; each tree and
// its scopes are owned by the single render call processing them.
type Engine struct {
	loader      template.Loader
	eval        eval.Evaluator
	translators *TranslatorSet
	rawTags     []string
	policy      *bluemonday.Policy
	logger      *slog.Logger
}

// New constructs an Engine, defaulting to the expr-backed evaluator and an
// empty translator set.
func New(options ...Option) *Engine {
	e := &Engine{
		logger: slog.New(discardHandler{}),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.eval == nil {
		e.eval = eval.New()
	}
	if e.translators == nil {
		e.translators = NewTranslatorSet()
	}
	return e
}

// Expand mutates root's subtree in place: the attribute pass, the child
// pass, then the onrender step. Failure aborts the whole render.
func (e *Engine) Expand(root *dom.Node, sc *scope.Scope) error {
	if root == nil {
		return nil
	}
	if root.Type == dom.ElementNode {
		if err := e.attributePass(root, sc); err != nil {
			return err
		}
	}
	if err := e.childPass(root, sc); err != nil {
		return err
	}
	return e.onRender(root, sc)
}

// attributePass substitutes `<%= %>` markers in every attribute value
// except the reserved onrender source, left to right and non-overlapping.
func (e *Engine) attributePass(el *dom.Node, sc *scope.Scope) error {
	for i := range el.Attrs {
		a := &el.Attrs[i]
		if a.Key == attrOnRender || !dom.HasMarkers(a.Val) {
			continue
		}
		out, err := e.substituteMarkers(a.Val, sc)
		if err != nil {
			return err
		}
		a.Val = out
	}
	return nil
}

// substituteMarkers resolves a marker-bearing string to plain text:
// expression markers evaluate and coerce to text, statement markers
// evaluate for side effect and contribute nothing.
func (e *Engine) substituteMarkers(value string, sc *scope.Scope) (string, error) {
	segs, err := dom.SplitMarkers(value)
	if err != nil {
		return "", &MalformedTemplateError{Detail: "attribute value", Err: err}
	}
	var out []byte
	for _, seg := range segs {
		if !seg.IsCode {
			out = append(out, seg.Literal...)
			continue
		}
		v, err := e.eval.Evaluate(seg.Code, sc)
		if err != nil {
			return "", err
		}
		if seg.Kind != dom.CodeStmt {
			out = append(out, scope.Text(v)...)
		}
	}
	return string(out), nil
}

// onRender runs the reserved onrender statement against a child scope
// binding `this` to a reference over the native node, then removes the
// attribute.
func (e *Engine) onRender(root *dom.Node, sc *scope.Scope) error {
	if root.Type != dom.ElementNode {
		return nil
	}
	src, ok := root.Attr(attrOnRender)
	if !ok {
		return nil
	}
	child := scope.NewChild(sc)
	child.Set("this", e.nodeRef(root))
	if _, err := e.eval.Evaluate(src, child); err != nil {
		return err
	}
	root.DelAttr(attrOnRender)
	return nil
}

// nodeRef wraps a native node for scripted access. populateFrom flattens
// a nested value into the node through the form populator; on anything
// that is not form-like it is a no-op returning the reference unchanged.
func (e *Engine) nodeRef(n *dom.Node) map[string]any {
	ref := map[string]any{"node": n, "tag": n.Tag}
	ref["populateFrom"] = func(value any) any {
		if n.Tag != "form" {
			return ref
		}
		if scope.IsIterable(value) {
			for _, pair := range scope.Pairs(value) {
				form.Populate(n, pair.Value, scope.Text(pair.Key))
			}
		}
		return ref
	}
	return ref
}

// discardHandler drops all records; libraries stay silent unless a caller
// wires a logger.
type discardHandler struct{}

func (discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (d discardHandler) WithAttrs(_ []slog.Attr) slog.Handler { return d }
func (d discardHandler) WithGroup(_ string) slog.Handler      { return d }
