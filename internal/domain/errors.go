package domain

import "errors"

var ErrUnknownPreset = errors.New("unknown preset")

// ValidationError is returned for malformed user input. Message is safe to
// show to the user as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
