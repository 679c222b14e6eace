// Package domain holds the quote model, the reconciliation merge and the
// failures both can report. Errors here know nothing of HTTP or the CLI;
// adapters map them to status codes and exit messages.
package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every typed error below unwraps to one of these.
var (
	// ErrNotFound indicates the requested entity does not exist.
	// For random selection this is an empty-result signal, not a failure.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a manually entered quote is incomplete.
	ErrValidation = errors.New("validation failed")

	// ErrImportFormat indicates an import payload is malformed or has the wrong shape.
	ErrImportFormat = errors.New("invalid import format")

	// ErrRemote indicates the remote quote endpoint failed or returned a non-success status.
	ErrRemote = errors.New("remote request failed")

	// ErrPersistence indicates a durable storage write failed.
	ErrPersistence = errors.New("persistence failed")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError names what was missing. ID is optional.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError rejects a field of a manually entered quote.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ImportFormatError describes why an import payload was rejected.
// Index is the offending array element, or -1 when the payload as a whole is bad.
type ImportFormatError struct {
	Reason string
	Index  int
}

func (e *ImportFormatError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid import format: element %d: %s", e.Index, e.Reason)
	}

	return "invalid import format: " + e.Reason
}

func (e *ImportFormatError) Unwrap() error {
	return ErrImportFormat
}

// NewImportFormatError creates an import error about the payload as a whole.
func NewImportFormatError(reason string) error {
	return &ImportFormatError{Reason: reason, Index: -1}
}

// NewImportElementError creates an import error about a single array element.
func NewImportElementError(index int, reason string) error {
	return &ImportFormatError{Reason: reason, Index: index}
}

// RemoteError reports a failed call to the remote quote endpoint.
// StatusCode is zero when no response was received.
type RemoteError struct {
	Operation  string
	StatusCode int
	Message    string

	// Cause is a more specific kind, such as an UnavailableError when the
	// call was refused locally. It may be nil.
	Cause error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote %s failed with status %d: %s", e.Operation, e.StatusCode, e.Message)
	}

	return fmt.Sprintf("remote %s failed: %s", e.Operation, e.Message)
}

func (e *RemoteError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrRemote}
	}

	return []error{ErrRemote, e.Cause}
}

func NewRemoteError(operation string, statusCode int, message string) error {
	return &RemoteError{Operation: operation, StatusCode: statusCode, Message: message}
}

// WrapRemoteError reports a remote call that never reached the endpoint.
// The result matches both ErrRemote and the kind of cause.
func WrapRemoteError(operation string, cause error) error {
	return &RemoteError{Operation: operation, Message: cause.Error(), Cause: cause}
}

// PersistenceError reports a storage slot that could not be read or written.
type PersistenceError struct {
	Slot  string
	Cause error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage slot %q: %v", e.Slot, e.Cause)
	}

	return fmt.Sprintf("storage slot %q failed", e.Slot)
}

// Unwrap exposes both the sentinel and the underlying storage error.
func (e *PersistenceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrPersistence}
	}

	return []error{ErrPersistence, e.Cause}
}

func NewPersistenceError(slot string, cause error) error {
	return &PersistenceError{Slot: slot, Cause: cause}
}

// UnavailableError means a dependency refused work, e.g. behind an open circuit.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// IsNotFound and the other Is helpers match an error kind through any
// wrapping.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsImportFormat(err error) bool {
	return errors.Is(err, ErrImportFormat)
}

func IsRemote(err error) bool {
	return errors.Is(err, ErrRemote)
}

func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
