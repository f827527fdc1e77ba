package expand

import "fmt"

// MalformedTemplateError reports unterminated or invalid marker syntax and
// control elements missing required attributes. Any occurrence aborts the
// whole render.
type MalformedTemplateError struct {
	Detail string
	Err    error
}

func (e *MalformedTemplateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("expand: malformed template: %s: %v", e.Detail, e.Err)
	}
	return "expand: malformed template: " + e.Detail
}

func (e *MalformedTemplateError) Unwrap() error {
	return e.Err
}

func malformed(format string, args ...any) error {
	return &MalformedTemplateError{Detail: fmt.Sprintf(format, args...)}
}
