// Package eval defines the expression-evaluation capability the expansion
// engine calls for every embedded `<% %>` payload, together with a default
// implementation backed by expr-lang. The engine treats evaluation
// failures as opaque and propagates them unmodified.
package eval

import (
	"fmt"
	"regexp"

	"github.com/expr-lang/expr"

	"github.com/weftkit/weft/pkg/scope"
)

// Evaluator evaluates one expression or statement source against a scope
// chain and returns its dynamic value. Implementations must be safe for
// sequential reuse within a render; they are never called concurrently
// for the same scope.
type Evaluator interface {
	Evaluate(source string, sc *scope.Scope) (any, error)
}

// Option customises the default evaluator.
type Option func(*ExprEvaluator)

// WithFuncs binds extra top-level functions available to every
// expression unless shadowed by a scope binding.
func WithFuncs(funcs map[string]any) Option {
	return func(e *ExprEvaluator) {
		for name, fn := range funcs {
			e.funcs[name] = fn
		}
	}
}

// ExprEvaluator evaluates sources with the expr language. Statements of
// the form `name = expr` are recognized at the top level and write their
// result to the local scope; everything else evaluates as an expression.
type ExprEvaluator struct {
	funcs map[string]any
}

// New constructs the default evaluator.
func New(options ...Option) *ExprEvaluator {
	e := &ExprEvaluator{funcs: make(map[string]any)}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// assignStmt matches `ident = ...` where the `=` is not part of a
// comparison operator.
var assignStmt = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*=\s*([^=].*)$`)

// Evaluate implements Evaluator.
func (e *ExprEvaluator) Evaluate(source string, sc *scope.Scope) (any, error) {
	if m := assignStmt.FindStringSubmatch(source); m != nil {
		v, err := e.run(m[2], sc)
		if err != nil {
			return nil, err
		}
		sc.Set(m[1], v)
		return v, nil
	}
	return e.run(source, sc)
}

func (e *ExprEvaluator) run(source string, sc *scope.Scope) (any, error) {
	env := sc.Flatten()
	for name, fn := range e.funcs {
		if _, shadowed := env[name]; !shadowed {
			env[name] = fn
		}
	}

	program, err := expr.Compile(source, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("eval: compile %q: %w", source, err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("eval: run %q: %w", source, err)
	}
	return out, nil
}
