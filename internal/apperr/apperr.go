// Package apperr defines the error classes shared by the storage, service and
// HTTP layers. Each class maps to exactly one client-visible outcome.
package apperr

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidationError is a client-caused problem with a single request. Its message
// is safe to show verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation builds a ValidationError for field.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AuthError means the caller identity is missing or invalid.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return "unauthenticated: " + e.Reason }

// StorageError wraps a backing-store failure on a primary write or any read.
// The cause is for server logs only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError for op.
func Storage(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// AssociationError is a failed secondary write of log-goal links. It never
// fails the request that caused it.
type AssociationError struct {
	LogID   uuid.UUID
	GoalIDs []string
	Err     error
}

func (e *AssociationError) Error() string {
	return fmt.Sprintf("link log %s to goals [%s]: %v", e.LogID, strings.Join(e.GoalIDs, ","), e.Err)
}

func (e *AssociationError) Unwrap() error { return e.Err }
