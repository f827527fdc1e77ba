package compose

import (
	"net/url"
	"time"

	"github.com/weftkit/weft/pkg/scope"
)

// Reference layouts used when a template asks for a date or time without
// giving one.
const (
	defaultDateLayout = "2006-01-02"
	defaultTimeLayout = "15:04:05"
)

// defaultBindings are the utility functions registered into both contexts
// at the top of every render. Caller-supplied bindings of the same name
// win.
func defaultBindings() map[string]any {
	return map[string]any{
		"formatDate":         formatDate,
		"formatTime":         formatTime,
		"encodeURIComponent": url.QueryEscape,
		"filterKeys":         filterKeys,
	}
}

func registerDefaults(sc *scope.Scope) {
	for name, fn := range defaultBindings() {
		if _, bound := sc.Get(name); !bound {
			sc.Set(name, fn)
		}
	}
}

func formatDate(value any, layout string) string {
	if layout == "" {
		layout = defaultDateLayout
	}
	return formatInstant(value, layout)
}

func formatTime(value any, layout string) string {
	if layout == "" {
		layout = defaultTimeLayout
	}
	return formatInstant(value, layout)
}

func formatInstant(value any, layout string) string {
	switch t := value.(type) {
	case time.Time:
		return t.Format(layout)
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed.Format(layout)
		}
		return t
	default:
		return scope.Text(value)
	}
}

// filterKeys returns the entries of an object-shaped value whose keys are
// listed, preserving the value's iteration order.
func filterKeys(value any, keys ...string) map[string]any {
	keep := make(map[string]bool, len(keys))
	for _, k := range keys {
		keep[k] = true
	}
	out := make(map[string]any)
	for _, pair := range scope.Pairs(value) {
		key := scope.Text(pair.Key)
		if keep[key] {
			out[key] = pair.Value
		}
	}
	return out
}
