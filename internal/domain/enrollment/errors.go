package enrollment

import "fmt"

// ValidationError reports malformed or contradictory input. Maps to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing referenced resource. Maps to 404. A primary
// surgeon whose role is not SURGEON produces the same error as a missing id.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func notFoundf(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// DuplicateError reports a conflicting existing resource. Maps to 409.
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string { return e.Message }

func duplicatef(format string, args ...interface{}) *DuplicateError {
	return &DuplicateError{Message: fmt.Sprintf(format, args...)}
}
