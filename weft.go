// Package weft renders tree-structured markup documents by expanding
// embedded expressions and control-flow markup against scoped variable
// bindings, then merging an expanded content document into an expanded
// skeleton document. This root package is a thin facade over pkg/compose,
// pkg/expand, and pkg/scope for callers that just want a document out.
package weft

import (
	"bytes"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"

	"github.com/weftkit/weft/pkg/compose"
	"github.com/weftkit/weft/pkg/dom"
	"github.com/weftkit/weft/pkg/eval"
	"github.com/weftkit/weft/pkg/expand"
	"github.com/weftkit/weft/pkg/scope"
	"github.com/weftkit/weft/pkg/template"
)

// Option configures a composer; re-exported for convenience.
type Option = compose.Option

// RenderError is the single wrapper a failed render surfaces.
type RenderError = compose.RenderError

// StructuralMergeError reports a missing merge target in the skeleton.
type StructuralMergeError = compose.StructuralMergeError

// TranslatorSet maps embedded tag names to translate functions.
type TranslatorSet = expand.TranslatorSet

// TranslateFunc turns one embedded element into its replacement node.
type TranslateFunc = expand.TranslateFunc

// Scope is a chained name-binding context.
type Scope = scope.Scope

// Node is one node of a parsed markup tree.
type Node = dom.Node

// NewText returns a plain text node.
func NewText(text string) *Node {
	return dom.NewText(text)
}

// NewScope returns an empty root scope.
func NewScope() *Scope {
	return scope.New()
}

// NewTranslatorSet returns an empty embedded-tag translator set.
func NewTranslatorSet() *TranslatorSet {
	return expand.NewTranslatorSet()
}

// Composer loads, expands, and merges documents; see pkg/compose.
type Composer = compose.Composer

// NewComposer exposes the composer constructor from the top-level module.
func NewComposer(options ...Option) *compose.Composer {
	return compose.New(options...)
}

// WithLoader injects the template loader resolving skeleton, content, and
// partial names.
func WithLoader(loader template.Loader) Option {
	return compose.WithLoader(loader)
}

// WithEvaluator injects a custom expression evaluator.
func WithEvaluator(ev eval.Evaluator) Option {
	return compose.WithEvaluator(ev)
}

// WithTranslators injects the embedded-tag translator set.
func WithTranslators(set *TranslatorSet) Option {
	return compose.WithTranslators(set)
}

// WithRawTags adds tag names parsed verbatim in every loaded document.
func WithRawTags(tags ...string) Option {
	return compose.WithRawTags(tags...)
}

// WithUnsafePolicy sanitizes `<%=HTML %>` insertions with a bluemonday
// policy.
func WithUnsafePolicy(policy *bluemonday.Policy) Option {
	return compose.WithUnsafePolicy(policy)
}

// WithPostProcess overrides the post-process hook run on finished trees.
func WithPostProcess(hook compose.PostProcess) Option {
	return compose.WithPostProcess(hook)
}

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return compose.WithLogger(logger)
}

// RenderHTML composes the named content template into the named skeleton
// and returns the serialized document. It is the simplest entry point for
// callers that just want markup output.
func RenderHTML(templateName string, contentCtx, skeletonCtx *Scope, skeletonName string, options ...Option) ([]byte, error) {
	doc, err := compose.New(options...).Render(templateName, contentCtx, skeletonCtx, skeletonName)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dom.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
