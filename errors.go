package impulse

import "github.com/pkg/errors"

var (
	// ErrInvalidReference is returned for a BodyRef, ConstraintRef or CustomRef never
	// issued by the world or whose slot has since been freed.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrDegenerateInput is returned when a shape, body, constraint or world setting
	// is rejected at construction time.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrBodyInUse is returned when removing a body that a constraint still
	// references. Remove the constraints first.
	ErrBodyInUse = errors.New("body referenced by constraint")
)

func degenerate(format string, args ...interface{}) error {
	return errors.Wrapf(ErrDegenerateInput, format, args...)
}
