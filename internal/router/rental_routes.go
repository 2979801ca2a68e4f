package router

import (
	"github.com/labstack/echo/v4"

	"github.com/pcordova/dvd-rental-api/internal/handler"
)

// RegisterRentals registers the rental lifecycle.  Creation and return
// require a staff token; the detail lookup is open so kiosks can poll
// a rental without a session.
func RegisterRentals(e *echo.Echo, h *handler.RentalHandler, auth echo.MiddlewareFunc) {
	g := e.Group("/api/rentals")
	g.POST("", h.Create, auth)
	g.GET("/:id", h.Detail)
	g.PUT("/:id/return", h.Return, auth)
}
