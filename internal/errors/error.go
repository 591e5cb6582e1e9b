// Package errors provides the error kinds and domain errors of the CRM.
//
// Domain errors carry a user-facing message and unwrap to one of the kinds,
// so transports can branch on errors.Is(err, ErrNotFound) and the like.
package errors

import "errors"

// Error kinds.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)

// Error is a domain error of a given kind.
type Error struct {
	kind    error
	message string
}

// New creates a domain error of the given kind.
func New(kind error, message string) *Error {
	return &Error{kind: kind, message: message}
}

func (e *Error) Error() string { return e.message }

func (e *Error) Unwrap() error { return e.kind }

// Kind returns the kind the error belongs to.
func (e *Error) Kind() error { return e.kind }

// Order placement.
var (
	ErrInvalidCustomerID = New(ErrNotFound, "Invalid customer ID.")
	ErrNoProducts        = New(ErrValidation, "At least one product must be selected.")
	ErrInvalidProductIDs = New(ErrValidation, "One or more product IDs are invalid.")
)

// Customers.
var (
	ErrInvalidPhone     = New(ErrValidation, "Invalid phone number format. Use +1234567890 or 123-456-7890.")
	ErrInvalidEmail     = New(ErrValidation, "Invalid email address.")
	ErrInvalidName      = New(ErrValidation, "Name is required and must be at most 100 characters.")
	ErrEmailExists      = New(ErrConflict, "Email already exists. Please use a different email.")
	ErrCustomerNotFound = New(ErrNotFound, "Customer not found.")
)

// Products and listings.
var (
	ErrInvalidPrice     = New(ErrValidation, "Price must be a positive number.")
	ErrNegativeStock    = New(ErrValidation, "Stock cannot be negative.")
	ErrProductNotFound  = New(ErrNotFound, "Product not found.")
	ErrOrderNotFound    = New(ErrNotFound, "Order not found.")
	ErrInvalidOrderBy   = New(ErrValidation, "Unsupported orderBy field.")
	ErrInvalidPageLimit = New(ErrValidation, "first must be between 1 and 1000.")
	ErrInvalidOffset    = New(ErrValidation, "offset cannot be negative.")
	ErrInvalidID        = New(ErrValidation, "Invalid ID.")
)

// Storage.
var (
	ErrTransactionBegin    = errors.New("failed to begin transaction")
	ErrTransactionCommit   = errors.New("failed to commit transaction")
	ErrTransactionRollback = errors.New("failed to rollback transaction")
)
