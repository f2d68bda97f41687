package counselor

import "errors"

var (
	ErrNotFound          = errors.New("request not found")
	ErrForbidden         = errors.New("not allowed to act on this request")
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrOpenRequestExists is returned when a student already has a pending
	// or accepted request.
	ErrOpenRequestExists = errors.New("an open request already exists")
)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
