package model

import "time"

// Staff mirrors the `staff` table.  Staff rows are pre-provisioned in
// the schema; this service only reads them during login and token
// verification.  Password holds whatever the row stores: a bcrypt hash
// for rows created with current tooling, or a legacy plain value for
// rows inherited from older imports (see utils.VerifyStaffPassword).
type Staff struct {
	ID         uint64    // staff.staff_id
	FirstName  string    // staff.first_name
	LastName   string    // staff.last_name
	Email      *string   // staff.email (nullable)
	StoreID    uint64    // staff.store_id
	Username   string    // staff.username
	Password   string    // staff.password
	Active     bool      // staff.active
	LastUpdate time.Time // staff.last_update
}
