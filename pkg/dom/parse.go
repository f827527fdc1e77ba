package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// defaultRawTags are always parsed verbatim, matching how script blocks
// carry embedded code untouched by markup rules.
var defaultRawTags = []string{"script", "style"}

// nativeRawTags are handled by the tokenizer's own raw-text state machine;
// everything else in the raw set needs manual capture.
var nativeRawTags = map[string]bool{
	"iframe": true, "noembed": true, "noframes": true, "noscript": true,
	"plaintext": true, "script": true, "style": true, "textarea": true,
	"title": true, "xmp": true,
}

var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Param: true, atom.Source: true,
	atom.Track: true, atom.Wbr: true,
}

// IsVoid reports whether tag is an HTML void element.
func IsVoid(tag string) bool {
	return voidElements[atom.Lookup([]byte(tag))]
}

// Parse tokenizes markup text into a node tree rooted at a fragment, so a
// source with multiple top-level siblings parses without a synthetic
// wrapper element. Tags named in rawTags (plus script and style) keep
// their bodies as verbatim raw nodes; inline `<% %>` markers in ordinary
// text become code nodes.
func Parse(text string, rawTags ...string) (*Node, error) {
	raw := make(map[string]bool, len(rawTags)+len(defaultRawTags))
	for _, t := range defaultRawTags {
		raw[t] = true
	}
	for _, t := range rawTags {
		raw[strings.ToLower(t)] = true
	}

	z := html.NewTokenizer(strings.NewReader(text))
	doc := NewFragment()
	cur := doc

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("dom: tokenize: %w", err)
			}
			return doc, nil

		case html.TextToken:
			tok := z.Token()
			if cur.Type == ElementNode && raw[cur.Tag] {
				cur.AppendChild(NewRaw(tok.Data))
				continue
			}
			if err := appendText(cur, tok.Data); err != nil {
				return nil, err
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			el := NewElement(tok.Data)
			for _, a := range tok.Attr {
				el.Attrs = append(el.Attrs, Attr{Key: a.Key, Val: a.Val})
			}
			cur.AppendChild(el)
			if tt == html.SelfClosingTagToken || voidElements[tok.DataAtom] {
				if nativeRawTags[tok.Data] {
					// A self-closed raw-text tag must not leave the
					// tokenizer waiting for its end tag.
					z.NextIsNotRawText()
				}
				continue
			}
			if raw[tok.Data] && !nativeRawTags[tok.Data] {
				if err := captureRaw(z, el, tok.Data); err != nil {
					return nil, err
				}
				continue
			}
			cur = el

		case html.EndTagToken:
			tok := z.Token()
			for p := cur; p != nil && p != doc; p = p.Parent {
				if p.Type == ElementNode && p.Tag == tok.Data {
					cur = p.Parent
					break
				}
			}

		case html.CommentToken:
			cur.AppendChild(&Node{Type: CommentNode, Text: z.Token().Data})

		case html.DoctypeToken:
			cur.AppendChild(NewRaw("<!DOCTYPE " + z.Token().Data + ">"))
		}
	}
}

// appendText splits character data on inline markers and appends the
// resulting text and code nodes in order.
func appendText(parent *Node, data string) error {
	if !HasMarkers(data) {
		if data != "" {
			parent.AppendChild(NewText(data))
		}
		return nil
	}
	segs, err := SplitMarkers(data)
	if err != nil {
		return fmt.Errorf("dom: parse text: %w", err)
	}
	for _, seg := range segs {
		if seg.IsCode {
			parent.AppendChild(&Node{Type: CodeNode, Code: seg.Code, CodeKind: seg.Kind})
			continue
		}
		if seg.Literal != "" {
			parent.AppendChild(NewText(seg.Literal))
		}
	}
	return nil
}

// captureRaw consumes tokens until the matching end tag for a raw tag the
// tokenizer does not treat as raw text natively, keeping the intervening
// source bytes verbatim. An unterminated raw element keeps everything up
// to end of input.
func captureRaw(z *html.Tokenizer, el *Node, name string) error {
	var b strings.Builder
	for {
		tt := z.Next()
		rawBytes := append([]byte(nil), z.Raw()...)
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return fmt.Errorf("dom: tokenize raw %q: %w", name, err)
			}
			if b.Len() > 0 {
				el.AppendChild(NewRaw(b.String()))
			}
			return nil
		case html.EndTagToken:
			if z.Token().Data == name {
				if b.Len() > 0 {
					el.AppendChild(NewRaw(b.String()))
				}
				return nil
			}
			b.Write(rawBytes)
		default:
			b.Write(rawBytes)
		}
	}
}
