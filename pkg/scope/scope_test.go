package scope

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScope_ParentDelegation(t *testing.T) {
	parent := New()
	parent.Set("site", "weft")
	child := NewChild(parent)

	if v, ok := child.Get("site"); !ok || v != "weft" {
		t.Fatalf("expected delegation to parent, got %v, %v", v, ok)
	}
}

func TestScope_WritesAreAlwaysLocal(t *testing.T) {
	parent := New()
	parent.Set("name", "outer")
	child := NewChild(parent)
	child.Set("name", "inner")

	if v, _ := child.Get("name"); v != "inner" {
		t.Fatalf("child lookup got %v", v)
	}
	if v, _ := parent.Get("name"); v != "outer" {
		t.Fatalf("write leaked into ancestor: %v", v)
	}
}

func TestScope_KeysInsertionOrder(t *testing.T) {
	s := New()
	s.Set("b", 1)
	s.Set("a", 2)
	s.Set("b", 3)

	if diff := cmp.Diff([]string{"b", "a"}, s.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestScope_FlattenClosestWins(t *testing.T) {
	root := New()
	root.Set("x", 1)
	root.Set("y", 1)
	leaf := NewChild(NewChild(root))
	leaf.Set("y", 2)

	flat := leaf.Flatten()
	if flat["x"] != 1 || flat["y"] != 2 {
		t.Fatalf("flatten precedence wrong: %v", flat)
	}
}
