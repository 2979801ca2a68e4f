package model

import "time"

// Customer mirrors the `customer` table.  Customers are the only
// entity this service creates, updates and deletes.  Active is kept as
// an int rather than a bool because the column is a TINYINT flag and
// clients send/receive it as 0 or 1.
//
// Fields:
//  ID         – customer.customer_id
//  StoreID    – customer.store_id, the store the customer belongs to
//  FirstName  – customer.first_name
//  LastName   – customer.last_name
//  Email      – customer.email (nullable)
//  AddressID  – customer.address_id (nullable in this schema)
//  Active     – customer.active flag (1 = active)
//  CreateDate – customer.create_date
//  LastUpdate – customer.last_update
type Customer struct {
	ID         uint64
	StoreID    uint64
	FirstName  string
	LastName   string
	Email      *string
	AddressID  *uint64
	Active     int
	CreateDate time.Time
	LastUpdate time.Time
}

// Address mirrors the `address` table.  Addresses are referenced by
// customers and embedded into customer responses; they are never
// written by this service.
type Address struct {
	ID         uint64  // address.address_id
	Address    string  // address.address
	Address2   *string // address.address2 (nullable)
	District   string  // address.district
	CityID     uint64  // address.city_id
	PostalCode *string // address.postal_code (nullable)
	Phone      *string // address.phone (nullable)
}
