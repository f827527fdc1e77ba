package compose

import (
	"fmt"

	"github.com/weftkit/weft/pkg/scope"
)

// StructuralMergeError reports that a required structural target (the
// skeleton's main element, its head title, or an id-referenced element)
// is absent from the skeleton.
type StructuralMergeError struct {
	Target string
}

func (e *StructuralMergeError) Error() string {
	return fmt.Sprintf("compose: structural merge: skeleton has no %s", e.Target)
}

// RenderError is the single top-level wrapper a failed render surfaces:
// it carries the template name and the content context alongside the
// underlying cause, so callers never see a raw chain of nested causes.
type RenderError struct {
	Template string
	Context  *scope.Scope
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("compose: render %q: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
