package ledger

import "fmt"

// ValidationError reports a rejected input (empty required field,
// unknown item type). The operation leaves state untouched.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an operation referencing an unknown member or item id.
// The operation leaves state untouched.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}
