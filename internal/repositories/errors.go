package repositories

import "errors"

var (
	// ErrNotFound is wrapped by every lookup that finds no row.
	ErrNotFound = errors.New("record not found")
	// ErrProductInUse is returned when deleting a product that order items still reference.
	ErrProductInUse = errors.New("product is referenced by order items")
)
