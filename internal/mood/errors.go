package mood

import "errors"

var ErrNotFound = errors.New("entry not found")

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
