package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/pcordova/dvd-rental-api/internal/model"
)

// StaffRepo reads staff rows for authentication.  Staff accounts are
// provisioned out of band; there is no write path here.
type StaffRepo struct {
	db *sql.DB
}

// NewStaffRepo returns a new StaffRepo bound to the given database.
func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{db: db} }

const staffColumns = `staff_id, first_name, last_name, email, store_id, username, password, active, last_update`

// GetByUsername fetches a staff member by exact username.  Returns
// ErrStaffNotFound when the username is unknown.
func (r *StaffRepo) GetByUsername(ctx context.Context, username string) (model.Staff, error) {
	username = strings.TrimSpace(username)
	const q = `SELECT ` + staffColumns + ` FROM staff WHERE username = ? LIMIT 1`
	return r.scanStaff(r.db.QueryRowContext(ctx, q, username))
}

// GetByID fetches a staff member by id.  Returns ErrStaffNotFound when
// the id does not resolve, which token verification reports to the
// client as a distinct failure.
func (r *StaffRepo) GetByID(ctx context.Context, staffID uint64) (model.Staff, error) {
	const q = `SELECT ` + staffColumns + ` FROM staff WHERE staff_id = ? LIMIT 1`
	return r.scanStaff(r.db.QueryRowContext(ctx, q, staffID))
}

func (r *StaffRepo) scanStaff(row *sql.Row) (model.Staff, error) {
	var s model.Staff
	var email, password sql.NullString
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &email, &s.StoreID,
		&s.Username, &password, &s.Active, &s.LastUpdate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Staff{}, ErrStaffNotFound
		}
		return model.Staff{}, err
	}
	if email.Valid {
		e := email.String
		s.Email = &e
	}
	if password.Valid {
		s.Password = password.String
	}
	return s, nil
}
