// Package errors provides custom error types for product-related operations.
package errors

import "errors"

var (
	// ErrProductNotFound is returned when no product exists with the requested ID.
	ErrProductNotFound = errors.New("product not found")

	// ErrEmptyUpdate is returned when an update carries no recognized fields.
	// The original API treated this as a no-op failure, indistinguishable from
	// a missing product at the HTTP surface.
	ErrEmptyUpdate = errors.New("update contains no fields")
)
