package model

import "time"

// Film mirrors a row of the `film` table.  Films are catalog data: this
// service never writes to them, it only reads and aggregates.  Monetary
// columns (rental_rate, replacement_cost) are DECIMAL(4,2)/(5,2) in the
// schema and held as float64 here since they are only ever echoed back
// in responses, never used for arithmetic beyond display.
//
// Fields:
//  ID              – film.film_id
//  Title           – film.title
//  Description     – film.description (nullable)
//  ReleaseYear     – film.release_year (nullable)
//  LanguageID      – film.language_id
//  RentalDuration  – film.rental_duration, the lending period in days
//  RentalRate      – film.rental_rate
//  Length          – film.length in minutes (nullable)
//  ReplacementCost – film.replacement_cost
//  Rating          – film.rating (G, PG, PG-13, R, NC-17)
//  LastUpdate      – film.last_update
type Film struct {
	ID              uint64
	Title           string
	Description     *string
	ReleaseYear     *uint16
	LanguageID      uint64
	RentalDuration  int
	RentalRate      float64
	Length          *uint16
	ReplacementCost float64
	Rating          string
	LastUpdate      time.Time
}

// Category mirrors the `category` table.  A film is linked to its
// category through the film_category join table.
type Category struct {
	ID         uint64    // category.category_id
	Name       string    // category.name
	LastUpdate time.Time // category.last_update
}

// Inventory mirrors the `inventory` table.  Each row is one physical,
// rentable copy of a film held by a store.  Availability is derived:
// a unit is free when no rental with a NULL return_date references it.
type Inventory struct {
	ID         uint64    // inventory.inventory_id
	FilmID     uint64    // inventory.film_id
	StoreID    uint64    // inventory.store_id
	LastUpdate time.Time // inventory.last_update
}
