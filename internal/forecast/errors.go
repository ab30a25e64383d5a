package forecast

import "fmt"

// MalformedPayloadError reports a provider response missing a required section
type MalformedPayloadError struct {
	Field   string
	Message string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed forecast payload: %s: %s", e.Field, e.Message)
}

func NewMalformedPayloadError(field, message string) *MalformedPayloadError {
	return &MalformedPayloadError{
		Field:   field,
		Message: message,
	}
}
