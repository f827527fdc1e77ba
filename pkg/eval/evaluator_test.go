package eval

import (
	"strings"
	"testing"

	"github.com/weftkit/weft/pkg/scope"
)

func TestEvaluate_SimpleExpression(t *testing.T) {
	sc := scope.New()
	sc.Set("n", 2)

	v, err := New().Evaluate("n + 3", sc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 5 {
		t.Fatalf("got %v", v)
	}
}

func TestEvaluate_ParentChainResolution(t *testing.T) {
	parent := scope.New()
	parent.Set("site", "weft")
	child := scope.NewChild(parent)
	child.Set("page", "home")

	v, err := New().Evaluate(`site + "/" + page`, child)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "weft/home" {
		t.Fatalf("got %v", v)
	}
}

func TestEvaluate_AssignmentWritesLocalScope(t *testing.T) {
	parent := scope.New()
	parent.Set("x", 1)
	child := scope.NewChild(parent)

	if _, err := New().Evaluate("x = 42", child); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := child.Get("x"); v != 42 {
		t.Fatalf("local binding not written: %v", v)
	}
	if v, _ := parent.Get("x"); v != 1 {
		t.Fatalf("assignment mutated ancestor: %v", v)
	}
}

func TestEvaluate_ComparisonIsNotAssignment(t *testing.T) {
	sc := scope.New()
	sc.Set("x", 1)

	v, err := New().Evaluate("x == 1", sc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != true {
		t.Fatalf("got %v", v)
	}
	if keys := sc.Keys(); len(keys) != 1 {
		t.Fatalf("comparison created a binding: %v", keys)
	}
}

func TestEvaluate_UndefinedNameIsNil(t *testing.T) {
	v, err := New().Evaluate("missing", scope.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Fatalf("got %v", v)
	}
}

func TestEvaluate_BoundFunctions(t *testing.T) {
	ev := New(WithFuncs(map[string]any{
		"shout": func(s string) string { return strings.ToUpper(s) },
	}))

	v, err := ev.Evaluate(`shout("hi")`, scope.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "HI" {
		t.Fatalf("got %v", v)
	}
}

func TestEvaluate_ScopeBindingShadowsFunc(t *testing.T) {
	ev := New(WithFuncs(map[string]any{"name": func() string { return "fn" }}))
	sc := scope.New()
	sc.Set("name", "bound")

	v, err := ev.Evaluate("name", sc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "bound" {
		t.Fatalf("got %v", v)
	}
}

func TestEvaluate_BadSourceFails(t *testing.T) {
	if _, err := New().Evaluate("1 +", scope.New()); err == nil {
		t.Fatalf("expected a compile error")
	}
}
