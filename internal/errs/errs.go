// Package errs defines the error taxonomy shared by the catalog and order
// contexts. Every error that can cross a service boundary is one of the
// types below; the HTTP adapters translate them with HTTPStatus so no
// domain code depends on status codes.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports structurally invalid caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation builds a ValidationError for a single field.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports a missing entity reference.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id %s", e.Entity, e.ID)
}

// NotFound builds a NotFoundError for the given entity kind and identifier.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError reports a uniqueness or referential conflict, such as a
// duplicate SKU or deleting a category that still has products.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Conflict builds a ConflictError with a formatted message.
func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports a stock adjustment that would drive a
// product's stock negative. Requested is always the positive magnitude of
// the attempted change.
type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: requested %d, available %d",
		e.Product, e.Requested, e.Available)
}

// InsufficientStock builds an InsufficientStockError.
func InsufficientStock(product string, requested, available int) error {
	return &InsufficientStockError{Product: product, Requested: requested, Available: available}
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	var (
		validation   *ValidationError
		notFound     *NotFoundError
		conflict     *ConflictError
		insufficient *InsufficientStockError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &insufficient):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
