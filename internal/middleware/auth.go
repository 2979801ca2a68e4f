// Package middleware provides shared request processing: the staff
// token gate, the Redis response cache, the distributed rate limiter
// and request metrics.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pcordova/dvd-rental-api/internal/model"
	"github.com/pcordova/dvd-rental-api/internal/repository"
	"github.com/pcordova/dvd-rental-api/internal/utils"
)

// StaffResolver resolves a staff_id claim back to a staff row.  A
// token whose staff member no longer exists must be rejected even when
// the signature and expiry are fine.
type StaffResolver interface {
	GetByID(ctx context.Context, staffID uint64) (model.Staff, error)
}

// StaffAuth returns a middleware that validates a Bearer staff token
// and stores the resolved staff_id in the request context under
// "staff_id".  Any authenticated staff member passes; there is no
// per-resource authorization beyond this gate.
func StaffAuth(secret string, staff StaffResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if auth == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Token is missing"})
			}
			parts := strings.SplitN(auth, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token format"})
			}

			staffID, err := utils.ParseStaffToken(secret, parts[1])
			if err != nil {
				msg := "Invalid token"
				if errors.Is(err, utils.ErrTokenExpired) {
					msg = "Token has expired"
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
			}

			if _, err := staff.GetByID(c.Request().Context(), staffID); err != nil {
				if errors.Is(err, repository.ErrStaffNotFound) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Staff member not found"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
			}

			c.Set("staff_id", staffID)
			return next(c)
		}
	}
}
