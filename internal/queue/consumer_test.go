package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatEventCreated(t *testing.T) {
	line := formatEvent(RentalEvent{
		Event:        EventRentalCreated,
		RentalID:     11,
		CustomerID:   5,
		CustomerName: "Mary Smith",
		FilmID:       3,
		FilmTitle:    "ACADEMY DINOSAUR",
		InventoryID:  42,
		StaffID:      1,
		RentalRate:   0.99,
		OccurredAt:   "2026-08-28T10:00:00Z",
	})
	assert.Equal(t, "[2026-08-28T10:00:00Z] Film rented | rental_id=11 | customer_id=5 | customer=\"Mary Smith\" | film_id=3 | film=\"ACADEMY DINOSAUR\" | inventory_id=42 | staff_id=1 | rate=0.99\n", line)
}

func TestFormatEventReturned(t *testing.T) {
	line := formatEvent(RentalEvent{
		Event:      EventRentalReturned,
		RentalID:   11,
		CustomerID: 5,
		OccurredAt: "2026-08-28T12:00:00Z",
	})
	assert.Equal(t, "[2026-08-28T12:00:00Z] Film returned | rental_id=11 | customer_id=5\n", line)
}
