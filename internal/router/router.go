// Package router wires the HTTP surface: which handlers serve which
// paths and which middleware guards them.  Everything lives under the
// /api prefix except the Prometheus scrape endpoint.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pcordova/dvd-rental-api/internal/handler"
)

// RegisterRoutes registers the unauthenticated service endpoints: the
// health check and the metrics scrape target.
func RegisterRoutes(e *echo.Echo, reg *prometheus.Registry) {
	e.GET("/api/health", handler.Health)
	if reg != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}
}

// RegisterAuth registers the staff login and token verification
// endpoints.  Both are open; the token gate protects the routes that
// declare it, not these.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/api/auth")
	g.POST("/login", a.Login)
	g.POST("/verify", a.Verify)
}
