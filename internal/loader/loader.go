// Package loader implements the template.Loader capability by delegating
// to in-memory, fs.FS, local-file, or HTTP strategies. Construction
// helpers live in the top-level weft package.
package loader

import (
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/weftkit/weft/pkg/template"
)

// Loader resolves template names through the configured strategies in
// order: in-memory map, fs.FS, base directory, then HTTP for URL names.
type Loader struct {
	templates map[string]string
	fsys      fsReader
	baseDir   string
	ext       string
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ template.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options template.LoaderOptions) *Loader {
	var client *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if options.RequestTimeout > 0 && clone.Timeout == 0 {
			clone.Timeout = options.RequestTimeout
		}
		client = &clone
	case options.AllowHTTPFallback:
		client = &http.Client{Timeout: options.RequestTimeout}
	}

	var fsys fsReader
	if options.FileSystem != nil {
		fsys = fsFS{fsys: options.FileSystem}
	}

	return &Loader{
		templates: options.Templates,
		fsys:      fsys,
		baseDir:   options.BaseDir,
		ext:       options.Extension,
		http:      client,
		allowHTTP: client != nil,
		timeout:   options.RequestTimeout,
	}
}

// LoadMarkup resolves name to raw markup text, failing with
// template.ErrNotFound when no strategy can serve it.
func (l *Loader) LoadMarkup(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("loader: name is required: %w", template.ErrNotFound)
	}

	if isURL(name) {
		if !l.allowHTTP {
			return "", fmt.Errorf("loader: http support disabled for %q: %w", name, template.ErrNotFound)
		}
		return loadHTTP(l.http, name)
	}

	candidate := name
	if l.ext != "" && path.Ext(candidate) == "" {
		candidate += l.ext
	}

	if l.templates != nil {
		if markup, ok := l.templates[candidate]; ok {
			return markup, nil
		}
		if markup, ok := l.templates[name]; ok {
			return markup, nil
		}
	}
	if l.fsys != nil {
		if markup, err := l.fsys.read(candidate); err == nil {
			return markup, nil
		}
	}
	if l.baseDir != "" {
		if markup, err := readFile(l.baseDir, candidate); err == nil {
			return markup, nil
		}
	}

	return "", fmt.Errorf("loader: template %q: %w", name, template.ErrNotFound)
}

func isURL(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}
