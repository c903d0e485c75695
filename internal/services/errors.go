package services

import "fmt"

// Validation error kinds.
const (
	KindEmptyCart       = "empty_cart"
	KindInvalidItem     = "invalid_item"
	KindInvalidCustomer = "invalid_customer"
	KindInvalidRequest  = "invalid_request"
)

// ValidationError reports bad client input. Nothing is persisted when it is returned.
type ValidationError struct {
	Kind    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(kind, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced resource that does not exist.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}
