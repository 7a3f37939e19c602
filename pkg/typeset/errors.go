package typeset

import (
	"errors"
	"fmt"
)

// ErrWorldMismatch is returned when a cached world is offered for a
// template it was not built for.
var ErrWorldMismatch = errors.New("world was built for a different template")

// InputError signals a failure building or updating a world's bound
// inputs. It indicates a malformed input value, not a template problem,
// and is fatal for the render it occurs in.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return fmt.Sprintf("typeset: %v", e.Err) }

func (e *InputError) Unwrap() error { return e.Err }

// EncodeError signals that artifact encoding failed after a successful
// compile. Fatal for the render; never folded into diagnostics.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return fmt.Sprintf("typeset: encode: %v", e.Err) }

func (e *EncodeError) Unwrap() error { return e.Err }
