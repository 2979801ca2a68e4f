// Package handler implements the HTTP endpoints.  Handlers talk to the
// repositories through small store interfaces so tests can substitute
// function-field fakes.
package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

// getStaffID reads the staff_id placed in the context by the auth
// middleware.  Unauthenticated routes see zero.
func getStaffID(c echo.Context) uint64 {
	if v := c.Get("staff_id"); v != nil {
		if id, ok := v.(uint64); ok {
			return id
		}
	}
	return 0
}

// parseID parses a numeric path parameter.  A non-numeric value is
// treated by callers the same as an unknown id.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
