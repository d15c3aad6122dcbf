package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure. Every kind except sync aborts the
// current run; sync failures never surface as run failures and so never
// appear on an Error returned from Run.
type Kind string

const (
	KindConfig     Kind = "config"
	KindInput      Kind = "input"
	KindGeneration Kind = "generation"
	KindRender     Kind = "render"
	KindStore      Kind = "store"
)

// Error is a pipeline failure with its taxonomy kind attached. The run
// record is left untouched at "ready" so a later attempt starts from
// scratch.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func failure(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the failure kind, or "" for nil/foreign errors.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
