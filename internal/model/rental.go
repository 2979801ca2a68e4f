package model

import "time"

// Rental records the loan of one inventory unit to a customer.  A
// rental is active while ReturnDate is nil; setting the return date is
// the only mutation ever applied to a rental and it happens exactly
// once.  There is no cancellation path: created -> returned, terminal.
//
// Fields:
//  ID          – rental.rental_id
//  RentalDate  – rental.rental_date, when the unit left the store
//  InventoryID – rental.inventory_id, the physical copy lent out
//  CustomerID  – rental.customer_id
//  ReturnDate  – rental.return_date (NULL while the rental is active)
//  StaffID     – rental.staff_id, the staff member who processed it
//  LastUpdate  – rental.last_update
type Rental struct {
	ID          uint64
	RentalDate  time.Time
	InventoryID uint64
	CustomerID  uint64
	ReturnDate  *time.Time
	StaffID     uint64
	LastUpdate  time.Time
}
