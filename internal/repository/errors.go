// Package repository implements data access for the rental schema with
// hand-written parameterized SQL.  Error values defined here are the
// contract with the handler layer: handlers switch on these sentinels
// to pick HTTP status codes, so repositories must return them instead
// of raw driver errors wherever the failure is a business condition
// rather than an infrastructure fault.
package repository

import (
	"errors"
	"fmt"
)

// ErrCustomerNotFound is returned when a customer_id does not resolve
// to a row.  Handlers translate this into HTTP 404.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrFilmNotFound is returned when a film_id does not resolve to a
// row.  Handlers translate this into HTTP 404.
var ErrFilmNotFound = errors.New("film not found")

// ErrActorNotFound is returned when an actor_id does not resolve to a
// row.
var ErrActorNotFound = errors.New("actor not found")

// ErrRentalNotFound is returned when a rental_id does not resolve to a
// row, or when a customer-scoped lookup finds a rental owned by a
// different customer.
var ErrRentalNotFound = errors.New("rental not found")

// ErrStaffNotFound is returned when a staff_id embedded in a token no
// longer resolves to a staff row.
var ErrStaffNotFound = errors.New("staff member not found")

// ErrNoInventoryAvailable is returned by rental creation when every
// inventory unit of the requested film is out on an active rental (or
// the film has no inventory at all).  Handlers translate this into
// HTTP 400.
var ErrNoInventoryAvailable = errors.New("film is not available for rental")

// ErrAlreadyReturned is returned when a return is attempted on a
// rental whose return_date is already set.  The first return wins;
// repeated calls must not silently succeed or touch the timestamps
// again.
var ErrAlreadyReturned = errors.New("film has already been returned")

// ActiveRentalsError blocks customer deletion while the customer still
// owns rentals with no recorded return.  Count carries the exact
// number of active rentals so the handler can report it.
type ActiveRentalsError struct {
	Count int
}

func (e *ActiveRentalsError) Error() string {
	return fmt.Sprintf("customer has %d active rentals", e.Count)
}
