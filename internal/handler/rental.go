package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pcordova/dvd-rental-api/internal/metrics"
	"github.com/pcordova/dvd-rental-api/internal/queue"
	"github.com/pcordova/dvd-rental-api/internal/repository"
)

// RentalStore is the slice of the rental repository the rental
// endpoints need.
type RentalStore interface {
	Create(ctx context.Context, customerID, filmID, staffID uint64) (*repository.RentalDetail, error)
	GetDetail(ctx context.Context, rentalID uint64) (*repository.RentalDetail, error)
	Return(ctx context.Context, rentalID uint64) (*repository.ReturnReceipt, error)
}

// RentalHandler serves the rental lifecycle.  Publish is called after
// a successful state change; failures there never fail the request.
type RentalHandler struct {
	Rentals RentalStore
	Metrics *metrics.Collector
	Publish func(ctx context.Context, ev queue.RentalEvent) error
}

func NewRentalHandler(r RentalStore, m *metrics.Collector,
	publish func(ctx context.Context, ev queue.RentalEvent) error) *RentalHandler {
	return &RentalHandler{Rentals: r, Metrics: m, Publish: publish}
}

type createRentalReq struct {
	CustomerID uint64 `json:"customer_id"`
	FilmID     uint64 `json:"film_id"`
}

// Create rents a free inventory unit of the film to the customer.  The
// acting staff member comes from the auth context.
func (h *RentalHandler) Create(c echo.Context) error {
	var req createRentalReq
	if err := c.Bind(&req); err != nil || req == (createRentalReq{}) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Request body is required"})
	}
	if req.CustomerID == 0 || req.FilmID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id and film_id are required"})
	}

	staffID := getStaffID(c)
	if staffID == 0 {
		staffID = 1
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	det, err := h.Rentals.Create(ctx, req.CustomerID, req.FilmID, staffID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCustomerNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
		case errors.Is(err, repository.ErrFilmNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Film not found"})
		case errors.Is(err, repository.ErrNoInventoryAvailable):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Film is not available for rental"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": fmt.Sprintf("Failed to create rental: %v", err)})
	}

	h.Metrics.RecordRentalCreated()
	if h.Publish != nil {
		_ = h.Publish(c.Request().Context(), queue.RentalEvent{
			Event:        queue.EventRentalCreated,
			RentalID:     det.RentalID,
			CustomerID:   det.CustomerID,
			CustomerName: det.CustomerName,
			FilmID:       det.FilmID,
			FilmTitle:    det.FilmTitle,
			InventoryID:  det.InventoryID,
			StaffID:      staffID,
			RentalRate:   det.RentalRate,
			OccurredAt:   det.RentalDate,
		})
	}
	return c.JSON(http.StatusCreated, det)
}

// Detail returns the full rental view.
func (h *RentalHandler) Detail(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Rental not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	det, err := h.Rentals.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRentalNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Rental not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	// TODO: switch to 200 once the kiosk client stops asserting on 201.
	return c.JSON(http.StatusCreated, det)
}

// Return marks the rental as returned.
func (h *RentalHandler) Return(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Rental not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rec, err := h.Rentals.Return(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRentalNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Rental not found"})
		case errors.Is(err, repository.ErrAlreadyReturned):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Film has already been returned"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": fmt.Sprintf("Failed to return rental: %v", err)})
	}

	h.Metrics.RecordRentalReturned()
	if h.Publish != nil {
		_ = h.Publish(c.Request().Context(), queue.RentalEvent{
			Event:      queue.EventRentalReturned,
			RentalID:   rec.RentalID,
			CustomerID: rec.CustomerID,
			OccurredAt: rec.ReturnDate.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"rental_id":   rec.RentalID,
		"return_date": rec.ReturnDate.Format(time.RFC3339),
		"message":     "Film returned successfully",
	})
}
