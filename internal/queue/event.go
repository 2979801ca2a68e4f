// Package queue defines message payloads exchanged over the message broker.
package queue

// RentalEvent is published when a rental is created or returned.  It
// carries enough information for downstream consumers to log or feed
// analytics without querying the primary database.
type RentalEvent struct {
	Event        string  `json:"event"` // "rental.created" or "rental.returned"
	RentalID     uint64  `json:"rental_id"`
	CustomerID   uint64  `json:"customer_id"`
	CustomerName string  `json:"customer_name,omitempty"`
	FilmID       uint64  `json:"film_id,omitempty"`
	FilmTitle    string  `json:"film_title,omitempty"`
	InventoryID  uint64  `json:"inventory_id,omitempty"`
	StaffID      uint64  `json:"staff_id,omitempty"`
	RentalRate   float64 `json:"rental_rate,omitempty"`
	OccurredAt   string  `json:"occurred_at"`
}

// Event type values for RentalEvent.Event.
const (
	EventRentalCreated  = "rental.created"
	EventRentalReturned = "rental.returned"
)
