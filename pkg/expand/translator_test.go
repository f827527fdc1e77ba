package expand

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/weftkit/weft/pkg/dom"
	"github.com/weftkit/weft/pkg/scope"
)

func TestTranslatorSet_RegisterRejectsDuplicates(t *testing.T) {
	set := NewTranslatorSet()
	fn := func(string, map[string]string) (*dom.Node, bool, error) { return nil, false, nil }

	if err := set.Register("widget", fn); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := set.Register("widget", fn); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if err := set.Register("", fn); err == nil {
		t.Fatal("expected empty tag to fail")
	}
}

func TestTranslatorSet_Names(t *testing.T) {
	set := NewTranslatorSet()
	fn := func(string, map[string]string) (*dom.Node, bool, error) { return nil, false, nil }
	set.MustRegister("b-tag", fn)
	set.MustRegister("a-tag", fn)

	if diff := cmp.Diff([]string{"a-tag", "b-tag"}, set.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_TranslatorReceivesSourceAndAttrs(t *testing.T) {
	set := NewTranslatorSet()
	set.MustRegister("shout", func(inner string, attrs map[string]string) (*dom.Node, bool, error) {
		return dom.NewText(strings.ToUpper(inner) + attrs["suffix"]), false, nil
	})
	e := New(WithTranslators(set))

	got := expandString(t, e, `<p><shout suffix="?">hey</shout></p>`, scope.New())
	want := `<p>HEY?</p>`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestExpand_TranslatorNilRemovesElement(t *testing.T) {
	set := NewTranslatorSet()
	set.MustRegister("gone", func(string, map[string]string) (*dom.Node, bool, error) {
		return nil, false, nil
	})
	e := New(WithTranslators(set))

	got := expandString(t, e, `<p>a<gone>x</gone>b</p>`, scope.New())
	want := `<p>ab</p>`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestExpand_TranslatorRescanSubstitutesTextMarkers(t *testing.T) {
	set := NewTranslatorSet()
	set.MustRegister("greet", func(string, map[string]string) (*dom.Node, bool, error) {
		return dom.NewText("hi <%= who %>"), true, nil
	})
	e := New(WithTranslators(set))

	sc := scope.New()
	sc.Set("who", "ada")

	got := expandString(t, e, `<p><greet></greet></p>`, sc)
	want := `<p>hi ada</p>`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestExpand_TranslatorRescanExpandsStructure(t *testing.T) {
	set := NewTranslatorSet()
	set.MustRegister("listing", func(string, map[string]string) (*dom.Node, bool, error) {
		return mustParse(t, `<ul><for-each over="items" as="x"><li><%= x %></li></for-each></ul>`), true, nil
	})
	e := New(WithTranslators(set))

	sc := scope.New()
	sc.Set("items", []any{"a", "b"})

	got := expandString(t, e, `<div><listing></listing></div>`, sc)
	want := `<div><ul><li>a</li><li>b</li></ul></div>`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestExpand_TranslatorErrorIsFatal(t *testing.T) {
	boom := errors.New("boom")
	set := NewTranslatorSet()
	set.MustRegister("bad", func(string, map[string]string) (*dom.Node, bool, error) {
		return nil, false, boom
	})
	e := New(WithTranslators(set))

	doc := mustParse(t, `<div><bad></bad></div>`)
	if err := e.Expand(doc, scope.New()); !errors.Is(err, boom) {
		t.Fatalf("expected translator failure, got %v", err)
	}
}
