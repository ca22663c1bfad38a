package types

import "errors"

// ErrorKind identifies the failure shown to the user. The zero value
// means no error.
type ErrorKind string

// Error kinds surfaced by the reconciler. The value is the user-facing
// message.
const (
	ErrorNone       ErrorKind = ""
	ErrorEmptyTitle ErrorKind = "Title should not be empty"
	ErrorLoad       ErrorKind = "Unable to load todos"
	ErrorAdd        ErrorKind = "Unable to add a todo"
	ErrorDelete     ErrorKind = "Unable to delete a todo"
	ErrorUpdateTodo ErrorKind = "Unable to update a todo"
)

// Message returns the user-facing text for the kind.
func (k ErrorKind) Message() string { return string(k) }

// Remote store errors. Every failure of a remote call wraps ErrNetwork,
// whatever the transport or status code.
var (
	ErrNetwork  = errors.New("network error")
	ErrNotFound = errors.New("todo not found")
)

// Validation errors.
var (
	ErrEmptyTitle    = errors.New("title should not be empty")
	ErrInvalidID     = errors.New("invalid todo ID")
	ErrInvalidData   = errors.New("invalid todo data")
	ErrInvalidFilter = errors.New("invalid filter mode")
	ErrOwnerUnset    = errors.New("owner ID is not configured")
)

// Reconciler state errors.
var (
	ErrInputDisabled = errors.New("a todo is already being added")
)
