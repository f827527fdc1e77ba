// Package compose orchestrates a full render: it loads and expands a
// skeleton document and a content document against their own scope
// chains, rewrites skeleton links, structurally merges the two trees, and
// wraps any failure exactly once into a reportable error carrying the
// template name and content context.
package compose

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"

	"github.com/weftkit/weft/pkg/dom"
	"github.com/weftkit/weft/pkg/eval"
	"github.com/weftkit/weft/pkg/expand"
	"github.com/weftkit/weft/pkg/scope"
	"github.com/weftkit/weft/pkg/template"
)

// PostProcess runs over the finished tree before Render returns it.
type PostProcess func(*dom.Node) error

// Option customises the composer configuration.
type Option func(*Composer)

// WithLoader injects the template loader resolving skeleton, content, and
// partial names.
func WithLoader(loader template.Loader) Option {
	return func(c *Composer) {
		c.loader = loader
	}
}

// WithEvaluator injects a custom expression evaluator.
func WithEvaluator(ev eval.Evaluator) Option {
	return func(c *Composer) {
		c.evaluator = ev
	}
}

// WithTranslators injects the embedded-tag translator set shared by both
// expansion passes.
func WithTranslators(set *expand.TranslatorSet) Option {
	return func(c *Composer) {
		c.translators = set
	}
}

// WithRawTags adds tag names parsed verbatim in every loaded document.
func WithRawTags(tags ...string) Option {
	return func(c *Composer) {
		c.rawTags = append(c.rawTags, tags...)
	}
}

// WithUnsafePolicy sanitizes `<%=HTML %>` insertions with a bluemonday
// policy in both expansion passes.
func WithUnsafePolicy(policy *bluemonday.Policy) Option {
	return func(c *Composer) {
		c.policy = policy
	}
}

// WithPostProcess overrides the post-process hook run on the finished
// tree. The default is a no-op.
func WithPostProcess(hook PostProcess) Option {
	return func(c *Composer) {
		if hook != nil {
			c.postProcess = hook
		}
	}
}

// WithLogger injects a structured logger; renders log at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Composer loads, expands, and merges one skeleton and one content
// document per render. A configured Composer is read-only and safe for
// concurrent renders; every render owns its trees and scopes exclusively.
type Composer struct {
	loader      template.Loader
	evaluator   eval.Evaluator
	translators *expand.TranslatorSet
	rawTags     []string
	policy      *bluemonday.Policy
	postProcess PostProcess
	logger      *slog.Logger
	engine      *expand.Engine
}

// New constructs a Composer. A loader is required for any useful render;
// missing collaborators fall back to the built-in implementations.
func New(options ...Option) *Composer {
	c := &Composer{
		postProcess: func(*dom.Node) error { return nil },
		logger:      slog.New(discardHandler{}),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.evaluator == nil {
		c.evaluator = eval.New()
	}
	if c.translators == nil {
		c.translators = expand.NewTranslatorSet()
	}
	c.engine = expand.New(
		expand.WithLoader(c.loader),
		expand.WithEvaluator(c.evaluator),
		expand.WithTranslators(c.translators),
		expand.WithRawTags(c.rawTags...),
		expand.WithUnsafePolicy(c.policy),
		expand.WithLogger(c.logger),
	)
	return c
}

// Engine exposes the expansion engine the composer renders with, so
// callers can expand standalone trees with the same configuration.
func (c *Composer) Engine() *expand.Engine {
	return c.engine
}

// Render loads and expands the named content template and skeleton
// against their own contexts, merges them structurally, and returns the
// finished document. A failed render yields no document: the failure is
// wrapped exactly once into a RenderError carrying the template name and
// content context.
func (c *Composer) Render(templateName string, contentCtx, skeletonCtx *scope.Scope, skeletonName string) (*dom.Node, error) {
	doc, err := c.render(templateName, contentCtx, skeletonCtx, skeletonName)
	if err != nil {
		return nil, &RenderError{Template: templateName, Context: contentCtx, Err: err}
	}
	return doc, nil
}

func (c *Composer) render(templateName string, contentCtx, skeletonCtx *scope.Scope, skeletonName string) (*dom.Node, error) {
	if c.loader == nil {
		return nil, fmt.Errorf("compose: no loader configured: %w", template.ErrNotFound)
	}
	if contentCtx == nil {
		contentCtx = scope.New()
	}
	if skeletonCtx == nil {
		skeletonCtx = scope.New()
	}
	c.logger.Debug("rendering document", "template", templateName, "skeleton", skeletonName)

	registerDefaults(contentCtx)
	registerDefaults(skeletonCtx)

	skeletonMarkup, err := c.loader.LoadMarkup(skeletonName)
	if err != nil {
		return nil, fmt.Errorf("compose: load skeleton %q: %w", skeletonName, err)
	}
	skeleton, err := dom.Parse(skeletonMarkup, c.rawTags...)
	if err != nil {
		return nil, fmt.Errorf("compose: parse skeleton %q: %w", skeletonName, err)
	}

	// A template file may have multiple top-level siblings, so the parse
	// root acts as its synthetic wrapper.
	contentMarkup, err := c.loader.LoadMarkup(templateName)
	if err != nil {
		return nil, fmt.Errorf("compose: load template %q: %w", templateName, err)
	}
	content, err := dom.Parse(contentMarkup, c.rawTags...)
	if err != nil {
		return nil, fmt.Errorf("compose: parse template %q: %w", templateName, err)
	}

	if err := c.engine.Expand(skeleton, skeletonCtx); err != nil {
		return nil, err
	}
	if err := rebaseLinks(skeleton); err != nil {
		return nil, err
	}
	if err := c.engine.Expand(content, contentCtx); err != nil {
		return nil, err
	}

	if err := merge(skeleton, content); err != nil {
		return nil, err
	}
	if err := c.postProcess(skeleton); err != nil {
		return nil, fmt.Errorf("compose: post-process: %w", err)
	}
	return skeleton, nil
}

type discardHandler struct{}

func (discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (d discardHandler) WithAttrs(_ []slog.Attr) slog.Handler        { return d }
func (d discardHandler) WithGroup(_ string) slog.Handler             { return d }
