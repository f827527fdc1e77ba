package weft

import (
	internalLoader "github.com/weftkit/weft/internal/loader"
	"github.com/weftkit/weft/pkg/template"
)

// NewLoader constructs a template loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewLoader(options ...template.LoaderOption) template.Loader {
	cfg := template.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}
