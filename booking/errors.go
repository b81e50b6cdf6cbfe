// Package booking owns client identity rules, the duplicate-booking
// invariants and the atomic reservation operation over the store
// contract.
package booking

import (
	"errors"
	"fmt"
)

// ErrEmptyBooking is returned when a booking carries no travelers.
var ErrEmptyBooking = errors.New("at least one traveler required")

// InvalidTravelerError reports which traveler entry broke which client
// invariant. The caller should re-collect that traveler's data.
type InvalidTravelerError struct {
	Index  int // position in the submitted traveler list
	Name   string
	Reason string
}

func (e *InvalidTravelerError) Error() string {
	return fmt.Sprintf("invalid traveler %d (%s): %s", e.Index+1, e.Name, e.Reason)
}

// DuplicateTravelerError reports two entries in the same booking that
// share client identity.
type DuplicateTravelerError struct {
	FirstName string
	LastName  string
}

func (e *DuplicateTravelerError) Error() string {
	return fmt.Sprintf("duplicate client in booking: %s %s", e.FirstName, e.LastName)
}

// AlreadyBookedError reports a client that already holds a reservation
// for the exact connection being booked. This is a business rule, not a
// fault; retrying with the same arguments will fail again.
type AlreadyBookedError struct {
	FirstName string
	LastName  string
}

func (e *AlreadyBookedError) Error() string {
	return fmt.Sprintf("client %s %s already has a reservation for this connection", e.FirstName, e.LastName)
}

// PersistenceError wraps a storage-layer fault. It is distinguishable
// from the business errors above so callers retry the former with
// corrected input and never blindly retry the latter.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsBusinessError reports whether an error is a recoverable business
// rule violation rather than a storage fault.
func IsBusinessError(err error) bool {
	var invalid *InvalidTravelerError
	var dup *DuplicateTravelerError
	var booked *AlreadyBookedError
	return errors.Is(err, ErrEmptyBooking) ||
		errors.As(err, &invalid) ||
		errors.As(err, &dup) ||
		errors.As(err, &booked)
}
