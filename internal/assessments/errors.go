package assessments

import "errors"

var (
	ErrNotFound  = errors.New("assessment not found")
	ErrForbidden = errors.New("assessment belongs to another user")
)

// ValidationError is a client-side problem with the request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
