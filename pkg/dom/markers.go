package dom

import (
	"errors"
	"strings"
)

const (
	markerOpen     = "<%"
	markerClose    = "%>"
	markerExpr     = "<%="
	markerExprHTML = "<%=HTML"
)

// ErrUnterminatedMarker reports a `<%` with no matching `%>`.
var ErrUnterminatedMarker = errors.New("dom: unterminated <% marker")

// Segment is one piece of a marker-scanned string: either literal text or
// one inline code payload.
type Segment struct {
	Literal string
	Code    string
	Kind    CodeKind
	IsCode  bool
}

// SplitMarkers scans s left to right for `<% %>` markers and returns the
// alternating literal and code segments, non-overlapping and in order.
// Text with no markers yields a single literal segment (identity).
func SplitMarkers(s string) ([]Segment, error) {
	var segs []Segment
	for {
		open := strings.Index(s, markerOpen)
		if open < 0 {
			if s != "" || len(segs) == 0 {
				segs = append(segs, Segment{Literal: s})
			}
			return segs, nil
		}
		if open > 0 {
			segs = append(segs, Segment{Literal: s[:open]})
		}
		rest := s[open:]
		end := strings.Index(rest, markerClose)
		if end < 0 {
			return nil, ErrUnterminatedMarker
		}
		body := rest[:end]
		kind := CodeStmt
		switch {
		case strings.HasPrefix(body, markerExprHTML):
			kind = CodeHTML
			body = body[len(markerExprHTML):]
		case strings.HasPrefix(body, markerExpr):
			kind = CodeExpr
			body = body[len(markerExpr):]
		default:
			body = body[len(markerOpen):]
		}
		segs = append(segs, Segment{
			Code:   strings.TrimSpace(body),
			Kind:   kind,
			IsCode: true,
		})
		s = rest[end+len(markerClose):]
	}
}

// HasMarkers reports whether s contains at least one `<%` marker opener.
func HasMarkers(s string) bool {
	return strings.Contains(s, markerOpen)
}
