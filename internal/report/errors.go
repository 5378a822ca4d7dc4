package report

import (
	"errors"
	"fmt"
)

// ErrUnknownTemplate means the requested template id is not in the library.
var ErrUnknownTemplate = errors.New("unknown report template")

// RenderError wraps a fault from the external rendering engine, keeping the
// original diagnostic text. It is the only error in the service that maps
// to a 5xx response.
type RenderError struct {
	TemplateID string
	Err        error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed for template %q: %v", e.TemplateID, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
