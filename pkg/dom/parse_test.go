package dom

import (
	"strings"
	"testing"
)

func TestParse_ElementTreeAndAttrOrder(t *testing.T) {
	doc, err := Parse(`<section class="hero" data-x="1"><p>Hello</p></section>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Children) != 1 {
		t.Fatalf("expected one top-level node, got %d", len(doc.Children))
	}
	section := doc.Children[0]
	if section.Tag != "section" {
		t.Fatalf("expected section, got %q", section.Tag)
	}
	if section.Attrs[0].Key != "class" || section.Attrs[1].Key != "data-x" {
		t.Fatalf("attribute order not preserved: %+v", section.Attrs)
	}
	p := section.FindTag("p")
	if p == nil || p.InnerText() != "Hello" {
		t.Fatalf("expected p with text Hello, got %+v", p)
	}
}

func TestParse_MultipleTopLevelSiblings(t *testing.T) {
	doc, err := Parse(`<main>Hi</main><title>T</title>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Children) != 2 {
		t.Fatalf("expected two top-level siblings, got %d", len(doc.Children))
	}
	if doc.Children[0].Tag != "main" || doc.Children[1].Tag != "title" {
		t.Fatalf("unexpected siblings: %q, %q", doc.Children[0].Tag, doc.Children[1].Tag)
	}
}

func TestParse_InlineCodeNodesInText(t *testing.T) {
	doc, err := Parse(`<p>Hi <%= name %>!</p>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := doc.FindTag("p")
	if len(p.Children) != 3 {
		t.Fatalf("expected text/code/text children, got %d", len(p.Children))
	}
	code := p.Children[1]
	if code.Type != CodeNode || code.Code != "name" || code.CodeKind != CodeExpr {
		t.Fatalf("unexpected code node: %+v", code)
	}
}

func TestParse_ScriptBodyIsRaw(t *testing.T) {
	doc, err := Parse(`<script>if (a < b) { go(); }</script>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	script := doc.FindTag("script")
	if len(script.Children) != 1 || script.Children[0].Type != RawNode {
		t.Fatalf("expected one raw child, got %+v", script.Children)
	}
	if got := script.Children[0].Text; got != "if (a < b) { go(); }" {
		t.Fatalf("raw body mangled: %q", got)
	}
}

func TestParse_CustomRawTag(t *testing.T) {
	doc, err := Parse(`<raw-block><p>kept <b>verbatim</b></p></raw-block>`, "raw-block")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	el := doc.FindTag("raw-block")
	if el == nil || len(el.Children) != 1 || el.Children[0].Type != RawNode {
		t.Fatalf("expected raw-block with one raw child, got %+v", el)
	}
	if got := el.Children[0].Text; got != "<p>kept <b>verbatim</b></p>" {
		t.Fatalf("raw body mangled: %q", got)
	}
}

func TestParse_SelfClosingTitleDoesNotSwallowSiblings(t *testing.T) {
	doc, err := Parse(`<html><head><title/></head><body><main/></body></html>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.FindTag("body") == nil || doc.FindTag("main") == nil {
		t.Fatalf("self-closed title swallowed the rest of the document:\n%s", doc.OuterHTML())
	}
}

func TestParse_VoidElements(t *testing.T) {
	doc, err := Parse(`<p><input type="text"><br>tail</p>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := doc.FindTag("p")
	if len(p.Children) != 3 {
		t.Fatalf("void elements must not capture siblings: %+v", p.Children)
	}
}

func TestRender_RoundTrip(t *testing.T) {
	src := `<section class="a"><p>x &amp; y</p><input type="text"></section>`
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out := doc.OuterHTML()
	if !strings.Contains(out, `<section class="a">`) ||
		!strings.Contains(out, "x &amp; y") ||
		!strings.Contains(out, `<input type="text">`) ||
		strings.Contains(out, "</input>") {
		t.Fatalf("unexpected serialization: %s", out)
	}
}

func TestRender_CodeNodeRoundTrips(t *testing.T) {
	doc, err := Parse(`<p><%= name %></p>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := doc.OuterHTML(); got != `<p><%= name %></p>` {
		t.Fatalf("code marker did not round-trip: %s", got)
	}
}

func TestRender_EscapesTextAndAttrs(t *testing.T) {
	el := NewElement("div", Attr{Key: "title", Val: `a "quoted" <value>`})
	el.AppendChild(NewText("<b> & more"))
	out := el.OuterHTML()
	if strings.Contains(out, "<b>") || !strings.Contains(out, "&lt;b&gt;") {
		t.Fatalf("text not escaped: %s", out)
	}
	if strings.Contains(out, `"a "quoted"`) || !strings.Contains(out, "&#34;quoted&#34;") {
		t.Fatalf("attr not escaped: %s", out)
	}
}
