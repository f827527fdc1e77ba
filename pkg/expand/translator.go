package expand

import (
	"fmt"
	"sort"
	"sync"

	"github.com/weftkit/weft/pkg/dom"
)

// TranslateFunc rewrites one embedded tag occurrence. It receives the
// element's raw inner source and its attribute mapping and returns a
// replacement node (nil removes the element) plus a rescan flag telling
// the engine to run marker substitution or recursive expansion over the
// replacement.
type TranslateFunc func(innerSource string, attrs map[string]string) (*dom.Node, bool, error)

// TranslatorSet maps tag names to translate functions. It is immutable in
// spirit after wiring: register everything up front, then share it freely
// across concurrent renders.
type TranslatorSet struct {
	mu  sync.RWMutex
	fns map[string]TranslateFunc
}

// NewTranslatorSet creates an empty set.
func NewTranslatorSet() *TranslatorSet {
	return &TranslatorSet{fns: make(map[string]TranslateFunc)}
}

// Register adds a translator by tag name. Duplicate names return an error.
func (t *TranslatorSet) Register(tag string, fn TranslateFunc) error {
	if tag == "" {
		return fmt.Errorf("expand: translator tag is required")
	}
	if fn == nil {
		return fmt.Errorf("expand: translator function is required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.fns[tag]; exists {
		return fmt.Errorf("expand: translator %q already registered", tag)
	}
	t.fns[tag] = fn
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (t *TranslatorSet) MustRegister(tag string, fn TranslateFunc) {
	if err := t.Register(tag, fn); err != nil {
		panic(err)
	}
}

// Lookup retrieves the translator for tag.
func (t *TranslatorSet) Lookup(tag string) (TranslateFunc, bool) {
	if t == nil {
		return nil, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	fn, ok := t.fns[tag]
	return fn, ok
}

// Names returns the registered tag names, sorted.
func (t *TranslatorSet) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.fns))
	for name := range t.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
