package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pcordova/dvd-rental-api/internal/metrics"
)

// Metrics records response status codes and handling latency.  Safe to
// install with a nil collector.
func Metrics(col *metrics.Collector) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			col.RecordRequestDuration(time.Since(start))
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			col.RecordHTTPResponse(status)
			return err
		}
	}
}
