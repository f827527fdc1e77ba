// Package dom implements the element tree the expansion engine rewrites:
// an ordered, mutable markup node model plus a tokenizer-backed parser and
// a serializer that round-trip the source structure. Parsing is informed by
// a caller-supplied set of raw tag names whose bodies are kept verbatim,
// and inline `<% %>` markers inside text become dedicated code nodes so the
// engine can evaluate them in document order.
package dom
