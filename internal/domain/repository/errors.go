package repository

import "errors"

// Storage-level sentinel errors. Services translate these into domain errors
// or retry, depending on whether a side effect was already observable.
var (
	// ErrCartAlreadyCheckedOut is returned when the checkout latch on a cart
	// was already claimed by a concurrent checkout.
	ErrCartAlreadyCheckedOut = errors.New("cart already checked out")

	// ErrVersionConflict is returned when an optimistic update lost the race
	// against a concurrent writer. The caller may re-read and retry.
	ErrVersionConflict = errors.New("order version conflict")
)
