package dom

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitMarkers_NoMarkersIsIdentity(t *testing.T) {
	segs, err := SplitMarkers("plain text, no markers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Segment{{Literal: "plain text, no markers"}}
	if diff := cmp.Diff(want, segs); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitMarkers_Kinds(t *testing.T) {
	segs, err := SplitMarkers(`a <%= x %> b <%=HTML y %> c <% z = 1 %> d`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Segment{
		{Literal: "a "},
		{Code: "x", Kind: CodeExpr, IsCode: true},
		{Literal: " b "},
		{Code: "y", Kind: CodeHTML, IsCode: true},
		{Literal: " c "},
		{Code: "z = 1", Kind: CodeStmt, IsCode: true},
		{Literal: " d"},
	}
	if diff := cmp.Diff(want, segs); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitMarkers_AdjacentMarkers(t *testing.T) {
	segs, err := SplitMarkers(`<%= a %><%= b %>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segs) != 2 || !segs[0].IsCode || !segs[1].IsCode {
		t.Fatalf("expected two code segments, got %+v", segs)
	}
}

func TestSplitMarkers_Unterminated(t *testing.T) {
	_, err := SplitMarkers("before <%= x ")
	if !errors.Is(err, ErrUnterminatedMarker) {
		t.Fatalf("expected ErrUnterminatedMarker, got %v", err)
	}
}

func TestHasMarkers(t *testing.T) {
	if HasMarkers("no markers here") {
		t.Fatalf("expected no markers")
	}
	if !HasMarkers("a <% b %>") {
		t.Fatalf("expected markers")
	}
}
