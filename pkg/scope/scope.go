// Package scope implements the chained name-binding contexts expressions
// are evaluated against, plus the dynamic-value coercions (text, boolean,
// ordered key/value pairs, JSON-safe text) the expansion engine relies on.
package scope

// Scope is an ordered mapping of name to dynamic value with an optional
// parent. Lookup resolves locally first and then delegates up the parent
// chain; writes always land in the local mapping, never in an ancestor.
type Scope struct {
	parent *Scope
	keys   []string
	values map[string]any
}

// New returns an empty root scope.
func New() *Scope {
	return &Scope{values: make(map[string]any)}
}

// NewChild returns an empty scope delegating lookups to parent. Children
// are created per loop iteration and per partial inclusion and discarded
// when that pass completes.
func NewChild(parent *Scope) *Scope {
	return &Scope{parent: parent, values: make(map[string]any)}
}

// Parent returns the scope this one delegates to, or nil.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Get resolves name against this scope and then the parent chain.
func (s *Scope) Get(name string) (any, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set binds name locally, shadowing any ancestor binding of the same name.
func (s *Scope) Set(name string, value any) {
	if _, ok := s.values[name]; !ok {
		s.keys = append(s.keys, name)
	}
	s.values[name] = value
}

// Keys returns the locally bound names in insertion order.
func (s *Scope) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Flatten merges the whole chain into one map, closest scope winning.
// Evaluators use this to build an expression environment.
func (s *Scope) Flatten() map[string]any {
	var chain []*Scope
	for cur := s; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	out := make(map[string]any)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, k := range chain[i].keys {
			out[k] = chain[i].values[k]
		}
	}
	return out
}
