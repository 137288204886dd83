package rental

import "errors"

var (
	// ErrInvalidRequest is returned when a request is missing a required field.
	ErrInvalidRequest = errors.New("invalid rental request")
	// ErrNotRentable is returned when the asset is unknown, broken, deleted or already lent out.
	ErrNotRentable = errors.New("device not rentable")
	// ErrNoActiveRental is returned when a check-in finds no open rental to close.
	ErrNoActiveRental = errors.New("no active rental found")
	// ErrBorrowerHasRental is returned when a borrower already holds a device
	// and only one open rental per borrower is allowed.
	ErrBorrowerHasRental = errors.New("borrower already has an active rental")
	// ErrReadFailed wraps every storage failure on the read side.
	ErrReadFailed = errors.New("failed to read rental data")
)
