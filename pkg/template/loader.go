// Package template defines the template-loading capability the composer
// and the expansion engine resolve partial names through. Loaders are
// read-only and safe to share across concurrent renders; implementations
// live in internal/loader.
package template

import (
	"errors"
	"io/fs"
	"net/http"
	"time"
)

// ErrNotFound reports that a loader cannot resolve a template name.
var ErrNotFound = errors.New("template: not found")

// Loader maps a template name to raw markup text.
type Loader interface {
	LoadMarkup(name string) (string, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(name string) (string, error)

// LoadMarkup implements Loader.
func (f LoaderFunc) LoadMarkup(name string) (string, error) {
	return f(name)
}

// LoaderOption customises loader construction.
type LoaderOption func(*LoaderOptions)

// LoaderOptions carries resolved loader configuration.
type LoaderOptions struct {
	FileSystem        fs.FS
	BaseDir           string
	Extension         string
	Templates         map[string]string
	HTTPClient        *http.Client
	AllowHTTPFallback bool
	RequestTimeout    time.Duration
}

// NewLoaderOptions resolves options into a LoaderOptions value.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	opts := LoaderOptions{
		RequestTimeout: 30 * time.Second,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&opts)
	}
	return opts
}

// WithFS resolves template names against an fs.FS.
func WithFS(fsys fs.FS) LoaderOption {
	return func(o *LoaderOptions) {
		o.FileSystem = fsys
	}
}

// WithBaseDir resolves template names against a directory on disk.
func WithBaseDir(dir string) LoaderOption {
	return func(o *LoaderOptions) {
		o.BaseDir = dir
	}
}

// WithExtension appends a default filename extension to names that lack
// one, e.g. ".html".
func WithExtension(ext string) LoaderOption {
	return func(o *LoaderOptions) {
		o.Extension = ext
	}
}

// WithTemplates serves templates from an in-memory map. Handy for tests
// and embedded defaults.
func WithTemplates(templates map[string]string) LoaderOption {
	return func(o *LoaderOptions) {
		if o.Templates == nil {
			o.Templates = make(map[string]string, len(templates))
		}
		for name, markup := range templates {
			o.Templates[name] = markup
		}
	}
}

// WithHTTPClient enables http(s) template names using the given client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(o *LoaderOptions) {
		o.HTTPClient = client
		o.AllowHTTPFallback = client != nil
	}
}

// WithHTTPFallback enables http(s) template names with a default client.
func WithHTTPFallback(enabled bool) LoaderOption {
	return func(o *LoaderOptions) {
		o.AllowHTTPFallback = enabled
	}
}

// WithRequestTimeout bounds HTTP template fetches.
func WithRequestTimeout(timeout time.Duration) LoaderOption {
	return func(o *LoaderOptions) {
		if timeout > 0 {
			o.RequestTimeout = timeout
		}
	}
}
