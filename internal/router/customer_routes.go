package router

import (
	"github.com/labstack/echo/v4"

	"github.com/pcordova/dvd-rental-api/internal/handler"
)

// RegisterCustomers registers the customer lifecycle.  Reads and
// creation are open; mutation and rental history sit behind the staff
// token gate.
func RegisterCustomers(e *echo.Echo, h *handler.CustomerHandler, auth echo.MiddlewareFunc) {
	g := e.Group("/api/customers")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)

	g.PUT("/:id", h.Update, auth)
	g.DELETE("/:id", h.Delete, auth)
	g.GET("/:id/rentals", h.Rentals, auth)
	g.PUT("/:id/rentals/:rid/return", h.ReturnRental, auth)
}
