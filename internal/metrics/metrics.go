// Package metrics collects and exposes Prometheus metrics for the
// rental service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector registers and records the service's metrics.  All methods
// are safe on a nil receiver so callers that run without metrics (unit
// tests, tooling) can simply pass nil.
type Collector struct {
	rentalsCreated  prometheus.Counter
	rentalsReturned prometheus.Counter
	httpResponses   *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics on the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		rentalsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rental_api_rentals_created_total",
			Help: "Total rentals created.",
		}),
		rentalsReturned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rental_api_rentals_returned_total",
			Help: "Total rentals returned.",
		}),
		httpResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_api_http_responses_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rental_api_request_duration_seconds",
			Help:    "Request handling latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(c.rentalsCreated, c.rentalsReturned, c.httpResponses, c.requestDuration)
	return c
}

// RecordRentalCreated counts a successful rental creation.
func (c *Collector) RecordRentalCreated() {
	if c == nil {
		return
	}
	c.rentalsCreated.Inc()
}

// RecordRentalReturned counts a successful return.
func (c *Collector) RecordRentalReturned() {
	if c == nil {
		return
	}
	c.rentalsReturned.Inc()
}

// RecordHTTPResponse counts a response by status code.
func (c *Collector) RecordHTTPResponse(statusCode int) {
	if c == nil {
		return
	}
	c.httpResponses.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration observes how long a request took to handle.
func (c *Collector) RecordRequestDuration(d time.Duration) {
	if c == nil {
		return
	}
	c.requestDuration.Observe(d.Seconds())
}
