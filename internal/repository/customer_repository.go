package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/pcordova/dvd-rental-api/internal/model"
)

// CustomerRepo provides CRUD over the customer table.  Customers are
// the only entity with a full write path; addresses are read-only and
// embedded into responses via an outer join.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// CustomerAddress is the nested address block of a customer response.
type CustomerAddress struct {
	AddressID  uint64  `json:"address_id"`
	Address    string  `json:"address"`
	Address2   *string `json:"address2"`
	District   string  `json:"district"`
	CityID     uint64  `json:"city_id"`
	PostalCode *string `json:"postal_code"`
	Phone      *string `json:"phone"`
}

// CustomerDetail is the customer view returned by every customer
// endpoint.  Address is nil when the customer has no address on file.
type CustomerDetail struct {
	CustomerID uint64           `json:"customer_id"`
	FirstName  string           `json:"first_name"`
	LastName   string           `json:"last_name"`
	Email      *string          `json:"email"`
	StoreID    uint64           `json:"store_id"`
	AddressID  *uint64          `json:"address_id"`
	Address    *CustomerAddress `json:"address"`
	Active     int              `json:"active"`
	CreateDate *string          `json:"create_date"`
	LastUpdate *string          `json:"last_update"`
}

// NewCustomer carries the fields accepted on creation.  StoreID must
// already be defaulted by the caller.
type NewCustomer struct {
	FirstName string
	LastName  string
	Email     *string
	StoreID   uint64
	AddressID *uint64
}

// CustomerUpdate is a partial update: nil fields are left untouched.
type CustomerUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	StoreID   *uint64
	AddressID *uint64
	Active    *int
}

const customerSelect = `SELECT c.customer_id, c.first_name, c.last_name, c.email,
	       c.store_id, c.address_id, c.active, c.create_date, c.last_update,
	       a.address_id, a.address, a.address2, a.district, a.city_id, a.postal_code, a.phone
	FROM customer c
	LEFT JOIN address a ON a.address_id = c.address_id`

// List returns all customers ordered by last then first name.  A
// non-empty term filters by substring on the numeric id, first name or
// last name, case-insensitively.
func (r *CustomerRepo) List(ctx context.Context, term string) ([]CustomerDetail, error) {
	q := customerSelect
	args := []any{}
	if term = strings.TrimSpace(term); term != "" {
		q += ` WHERE CAST(c.customer_id AS CHAR) LIKE ?
		       OR LOWER(c.first_name) LIKE ?
		       OR LOWER(c.last_name) LIKE ?`
		pat := "%" + strings.ToLower(term) + "%"
		args = append(args, pat, pat, pat)
	}
	q += ` ORDER BY c.last_name, c.first_name`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CustomerDetail, 0)
	for rows.Next() {
		det, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *det)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDetail returns a single customer or ErrCustomerNotFound.
func (r *CustomerRepo) GetDetail(ctx context.Context, customerID uint64) (*CustomerDetail, error) {
	row := r.db.QueryRowContext(ctx, customerSelect+` WHERE c.customer_id = ?`, customerID)
	det, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return det, nil
}

// Create inserts a new active customer with both timestamps set to now
// and returns the stored detail.
func (r *CustomerRepo) Create(ctx context.Context, nc NewCustomer) (*CustomerDetail, error) {
	now := time.Now().UTC().Truncate(time.Second)
	const ins = `INSERT INTO customer (store_id, first_name, last_name, email, address_id, active, create_date, last_update)
	             VALUES (?, ?, ?, ?, ?, 1, ?, ?)`
	res, err := r.db.ExecContext(ctx, ins, nc.StoreID, nc.FirstName, nc.LastName, nc.Email, nc.AddressID, now, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetDetail(ctx, uint64(id))
}

// Update applies the supplied fields only and refreshes last_update.
// It returns ErrCustomerNotFound when the id does not resolve.
func (r *CustomerRepo) Update(ctx context.Context, customerID uint64, u CustomerUpdate) (*CustomerDetail, error) {
	var exists uint64
	err := r.db.QueryRowContext(ctx, `SELECT customer_id FROM customer WHERE customer_id = ?`, customerID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	set := []string{}
	args := []any{}
	if u.FirstName != nil {
		set = append(set, "first_name = ?")
		args = append(args, *u.FirstName)
	}
	if u.LastName != nil {
		set = append(set, "last_name = ?")
		args = append(args, *u.LastName)
	}
	if u.Email != nil {
		set = append(set, "email = ?")
		args = append(args, *u.Email)
	}
	if u.StoreID != nil {
		set = append(set, "store_id = ?")
		args = append(args, *u.StoreID)
	}
	if u.AddressID != nil {
		set = append(set, "address_id = ?")
		args = append(args, *u.AddressID)
	}
	if u.Active != nil {
		set = append(set, "active = ?")
		args = append(args, *u.Active)
	}
	set = append(set, "last_update = ?")
	args = append(args, time.Now().UTC().Truncate(time.Second))
	args = append(args, customerID)

	q := "UPDATE customer SET " + strings.Join(set, ", ") + " WHERE customer_id = ?"
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	return r.GetDetail(ctx, customerID)
}

// Delete hard-deletes a customer together with their rental history.
// The existence check, the active rental count and the deletes run in
// one transaction so a rental created concurrently cannot slip past
// the guard.  A customer with active rentals yields an
// *ActiveRentalsError carrying the count; otherwise every remaining
// rental row is returned history, which is erased with the customer
// rather than left to violate the foreign key.
func (r *CustomerRepo) Delete(ctx context.Context, customerID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists uint64
	err = tx.QueryRowContext(ctx, `SELECT customer_id FROM customer WHERE customer_id = ? FOR UPDATE`, customerID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCustomerNotFound
		}
		return err
	}

	var active int
	const countQ = `SELECT COUNT(*) FROM rental WHERE customer_id = ? AND return_date IS NULL`
	if err := tx.QueryRowContext(ctx, countQ, customerID).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return &ActiveRentalsError{Count: active}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM rental WHERE customer_id = ?`, customerID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM customer WHERE customer_id = ?`, customerID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// scanTarget is satisfied by *sql.Row and *sql.Rows.
type scanTarget interface {
	Scan(dest ...any) error
}

func scanCustomer(row scanTarget) (*CustomerDetail, error) {
	var mc model.Customer
	var email sql.NullString
	var addressID sql.NullInt64
	var createDate, lastUpdate sql.NullTime
	var aID sql.NullInt64
	var aAddr, aAddr2, aDistrict, aPostal, aPhone sql.NullString
	var aCity sql.NullInt64

	err := row.Scan(
		&mc.ID, &mc.FirstName, &mc.LastName, &email,
		&mc.StoreID, &addressID, &mc.Active, &createDate, &lastUpdate,
		&aID, &aAddr, &aAddr2, &aDistrict, &aCity, &aPostal, &aPhone,
	)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		e := email.String
		mc.Email = &e
	}
	if addressID.Valid {
		id := uint64(addressID.Int64)
		mc.AddressID = &id
	}
	if createDate.Valid {
		mc.CreateDate = createDate.Time
	}
	if lastUpdate.Valid {
		mc.LastUpdate = lastUpdate.Time
	}

	var addr *model.Address
	if aID.Valid {
		addr = &model.Address{
			ID:       uint64(aID.Int64),
			Address:  aAddr.String,
			District: aDistrict.String,
			CityID:   uint64(aCity.Int64),
		}
		if aAddr2.Valid {
			v := aAddr2.String
			addr.Address2 = &v
		}
		if aPostal.Valid {
			v := aPostal.String
			addr.PostalCode = &v
		}
		if aPhone.Valid {
			v := aPhone.String
			addr.Phone = &v
		}
	}
	return customerDetail(mc, addr), nil
}

// customerDetail projects a customer row and its outer-joined address
// into the response view.
func customerDetail(mc model.Customer, addr *model.Address) *CustomerDetail {
	det := &CustomerDetail{
		CustomerID: mc.ID,
		FirstName:  mc.FirstName,
		LastName:   mc.LastName,
		Email:      mc.Email,
		StoreID:    mc.StoreID,
		AddressID:  mc.AddressID,
		Active:     mc.Active,
	}
	if !mc.CreateDate.IsZero() {
		iso := mc.CreateDate.UTC().Format(time.RFC3339)
		det.CreateDate = &iso
	}
	if !mc.LastUpdate.IsZero() {
		iso := mc.LastUpdate.UTC().Format(time.RFC3339)
		det.LastUpdate = &iso
	}
	if addr != nil {
		det.Address = &CustomerAddress{
			AddressID:  addr.ID,
			Address:    addr.Address,
			Address2:   addr.Address2,
			District:   addr.District,
			CityID:     addr.CityID,
			PostalCode: addr.PostalCode,
			Phone:      addr.Phone,
		}
	}
	return det
}
