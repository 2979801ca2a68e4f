package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pcordova/dvd-rental-api/internal/model"
)

// RentalRepo owns the rental lifecycle: allocating an inventory unit
// to a new rental, reading rental detail, and the one-way transition
// to returned.  All state-changing methods run inside a transaction so
// the availability check and the write are atomic; two concurrent
// requests cannot claim the same inventory unit because the free-unit
// lookup locks the candidate row with FOR UPDATE.
type RentalRepo struct {
	db *sql.DB
}

// NewRentalRepo returns a new RentalRepo bound to the given database.
func NewRentalRepo(db *sql.DB) *RentalRepo { return &RentalRepo{db: db} }

// RentalDetail is the full rental view returned by creation and by the
// detail endpoint.  ExpectedReturnDate is derived from the film's
// rental_duration and never persisted.
type RentalDetail struct {
	RentalID           uint64  `json:"rental_id"`
	CustomerID         uint64  `json:"customer_id"`
	CustomerName       string  `json:"customer_name"`
	FilmID             uint64  `json:"film_id"`
	FilmTitle          string  `json:"film_title"`
	RentalDate         string  `json:"rental_date"`
	ReturnDate         *string `json:"return_date"`
	ExpectedReturnDate string  `json:"expected_return_date"`
	RentalRate         float64 `json:"rental_rate"`
	RentalDurationDays int     `json:"rental_duration_days"`
	IsReturned         bool    `json:"is_returned"`
	InventoryID        uint64  `json:"inventory_id"`
}

// ReturnReceipt confirms a successful return.
type ReturnReceipt struct {
	RentalID   uint64
	CustomerID uint64
	ReturnDate time.Time
}

// CustomerRental is one row of a customer's rental history, enriched
// with film title and rate for display.
type CustomerRental struct {
	RentalID    uint64  `json:"rental_id"`
	FilmID      uint64  `json:"film_id"`
	FilmTitle   string  `json:"film_title"`
	RentalDate  string  `json:"rental_date"`
	ReturnDate  *string `json:"return_date"`
	RentalRate  float64 `json:"rental_rate"`
	IsReturned  bool    `json:"is_returned"`
	InventoryID uint64  `json:"inventory_id"`
}

// rowQuerier lets the detail query run on either *sql.DB or *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Create allocates a free inventory unit of the film to the customer
// and inserts the rental row, all in one transaction.  It returns
// ErrCustomerNotFound / ErrFilmNotFound when the references do not
// resolve and ErrNoInventoryAvailable when every unit of the film is
// out.  Selection among free units is first-found by inventory_id;
// no fairness is promised.
func (r *RentalRepo) Create(ctx context.Context, customerID, filmID, staffID uint64) (*RentalDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var cid uint64
	err = tx.QueryRowContext(ctx, `SELECT customer_id FROM customer WHERE customer_id = ?`, customerID).Scan(&cid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	var fid uint64
	err = tx.QueryRowContext(ctx, `SELECT film_id FROM film WHERE film_id = ?`, filmID).Scan(&fid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFilmNotFound
		}
		return nil, err
	}

	// A unit is free when no active rental references it.  The lock on
	// the selected row keeps a concurrent create from allocating the
	// same unit before this transaction commits.
	const alloc = `SELECT i.inventory_id, i.film_id, i.store_id
	               FROM inventory i
	               LEFT JOIN rental r ON r.inventory_id = i.inventory_id AND r.return_date IS NULL
	               WHERE i.film_id = ? AND r.rental_id IS NULL
	               ORDER BY i.inventory_id
	               LIMIT 1
	               FOR UPDATE`
	var unit model.Inventory
	err = tx.QueryRowContext(ctx, alloc, filmID).Scan(&unit.ID, &unit.FilmID, &unit.StoreID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoInventoryAvailable
		}
		return nil, err
	}

	// DATETIME columns carry second precision.
	now := time.Now().UTC().Truncate(time.Second)
	const ins = `INSERT INTO rental (rental_date, inventory_id, customer_id, staff_id, last_update)
	             VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins, now, unit.ID, customerID, staffID, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	det, err := rentalDetail(ctx, tx, uint64(id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return det, nil
}

// GetDetail returns the full rental view or ErrRentalNotFound.
func (r *RentalRepo) GetDetail(ctx context.Context, rentalID uint64) (*RentalDetail, error) {
	return rentalDetail(ctx, r.db, rentalID)
}

// Return marks the rental as returned.  The row is locked before the
// check so a racing second return observes the first one and fails
// with ErrAlreadyReturned instead of overwriting the timestamp.
func (r *RentalRepo) Return(ctx context.Context, rentalID uint64) (*ReturnReceipt, error) {
	return r.doReturn(ctx, rentalID, 0)
}

// ReturnForCustomer behaves like Return but additionally requires the
// rental to belong to the given customer; a rental owned by someone
// else is reported as ErrRentalNotFound rather than leaking its
// existence.
func (r *RentalRepo) ReturnForCustomer(ctx context.Context, customerID, rentalID uint64) (*ReturnReceipt, error) {
	return r.doReturn(ctx, rentalID, customerID)
}

func (r *RentalRepo) doReturn(ctx context.Context, rentalID, customerID uint64) (*ReturnReceipt, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const sel = `SELECT customer_id, return_date FROM rental WHERE rental_id = ? FOR UPDATE`
	var ownerID uint64
	var returned sql.NullTime
	err = tx.QueryRowContext(ctx, sel, rentalID).Scan(&ownerID, &returned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	if customerID != 0 && ownerID != customerID {
		return nil, ErrRentalNotFound
	}
	if returned.Valid {
		return nil, ErrAlreadyReturned
	}

	now := time.Now().UTC().Truncate(time.Second)
	const upd = `UPDATE rental SET return_date = ?, last_update = ? WHERE rental_id = ?`
	if _, err := tx.ExecContext(ctx, upd, now, now, rentalID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &ReturnReceipt{RentalID: rentalID, CustomerID: ownerID, ReturnDate: now}, nil
}

// HistoryByCustomer returns every rental of the customer joined with
// film title and rate, newest first.  Existence of the customer is the
// caller's concern; an unknown customer simply yields an empty slice.
func (r *RentalRepo) HistoryByCustomer(ctx context.Context, customerID uint64) ([]CustomerRental, error) {
	const q = `SELECT r.rental_id, r.rental_date, r.return_date, r.inventory_id,
	                  f.film_id, f.title, f.rental_rate
	           FROM rental r
	           JOIN inventory i ON i.inventory_id = r.inventory_id
	           JOIN film f ON f.film_id = i.film_id
	           WHERE r.customer_id = ?
	           ORDER BY r.rental_date DESC`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CustomerRental, 0)
	for rows.Next() {
		var ren model.Rental
		var returnDate sql.NullTime
		var filmID uint64
		var title string
		var rate float64
		if err := rows.Scan(&ren.ID, &ren.RentalDate, &returnDate, &ren.InventoryID,
			&filmID, &title, &rate); err != nil {
			return nil, err
		}
		if returnDate.Valid {
			ren.ReturnDate = &returnDate.Time
		}
		out = append(out, customerRentalView(ren, filmID, title, rate))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// customerRentalView projects a rental row into one history entry.
func customerRentalView(ren model.Rental, filmID uint64, title string, rate float64) CustomerRental {
	cr := CustomerRental{
		RentalID:    ren.ID,
		FilmID:      filmID,
		FilmTitle:   title,
		RentalDate:  ren.RentalDate.UTC().Format(time.RFC3339),
		RentalRate:  rate,
		InventoryID: ren.InventoryID,
	}
	if ren.ReturnDate != nil {
		iso := ren.ReturnDate.UTC().Format(time.RFC3339)
		cr.ReturnDate = &iso
		cr.IsReturned = true
	}
	return cr
}

func rentalDetail(ctx context.Context, q rowQuerier, rentalID uint64) (*RentalDetail, error) {
	const sel = `SELECT r.rental_id, r.rental_date, r.return_date, r.inventory_id, r.customer_id,
	                    c.first_name, c.last_name,
	                    f.film_id, f.title, f.rental_rate, f.rental_duration
	             FROM rental r
	             JOIN customer c ON c.customer_id = r.customer_id
	             JOIN inventory i ON i.inventory_id = r.inventory_id
	             JOIN film f ON f.film_id = i.film_id
	             WHERE r.rental_id = ?`
	var ren model.Rental
	var returnDate sql.NullTime
	var firstName, lastName, title string
	var filmID uint64
	var rate float64
	var durationDays int
	err := q.QueryRowContext(ctx, sel, rentalID).Scan(
		&ren.ID, &ren.RentalDate, &returnDate, &ren.InventoryID, &ren.CustomerID,
		&firstName, &lastName,
		&filmID, &title, &rate, &durationDays,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	if returnDate.Valid {
		ren.ReturnDate = &returnDate.Time
	}
	return rentalView(ren, firstName+" "+lastName, filmID, title, rate, durationDays), nil
}

// rentalView projects a rental row and its joined customer/film columns
// into the full response view, deriving the expected return date from
// the film's rental duration.
func rentalView(ren model.Rental, customerName string, filmID uint64, title string, rate float64, durationDays int) *RentalDetail {
	det := &RentalDetail{
		RentalID:           ren.ID,
		CustomerID:         ren.CustomerID,
		CustomerName:       customerName,
		FilmID:             filmID,
		FilmTitle:          title,
		RentalDate:         ren.RentalDate.UTC().Format(time.RFC3339),
		RentalRate:         rate,
		RentalDurationDays: durationDays,
		InventoryID:        ren.InventoryID,
	}
	if ren.ReturnDate != nil {
		iso := ren.ReturnDate.UTC().Format(time.RFC3339)
		det.ReturnDate = &iso
		det.IsReturned = true
	}
	expected := ren.RentalDate.UTC().Add(time.Duration(durationDays) * 24 * time.Hour)
	det.ExpectedReturnDate = expected.Format(time.RFC3339)
	return det
}
