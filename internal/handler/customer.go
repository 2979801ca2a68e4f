package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pcordova/dvd-rental-api/internal/metrics"
	"github.com/pcordova/dvd-rental-api/internal/queue"
	"github.com/pcordova/dvd-rental-api/internal/repository"
)

// CustomerStore is the slice of the customer repository the customer
// endpoints need.
type CustomerStore interface {
	List(ctx context.Context, term string) ([]repository.CustomerDetail, error)
	GetDetail(ctx context.Context, customerID uint64) (*repository.CustomerDetail, error)
	Create(ctx context.Context, nc repository.NewCustomer) (*repository.CustomerDetail, error)
	Update(ctx context.Context, customerID uint64, u repository.CustomerUpdate) (*repository.CustomerDetail, error)
	Delete(ctx context.Context, customerID uint64) error
}

// CustomerRentalStore covers the rental queries reachable through the
// customer routes.
type CustomerRentalStore interface {
	HistoryByCustomer(ctx context.Context, customerID uint64) ([]repository.CustomerRental, error)
	ReturnForCustomer(ctx context.Context, customerID, rentalID uint64) (*repository.ReturnReceipt, error)
}

// CustomerHandler serves the customer lifecycle and the customer-scoped
// rental views.
type CustomerHandler struct {
	Customers   CustomerStore
	RentalStore CustomerRentalStore
	Metrics     *metrics.Collector
	Publish   func(ctx context.Context, ev queue.RentalEvent) error
}

func NewCustomerHandler(cs CustomerStore, rs CustomerRentalStore, m *metrics.Collector,
	publish func(ctx context.Context, ev queue.RentalEvent) error) *CustomerHandler {
	return &CustomerHandler{Customers: cs, RentalStore: rs, Metrics: m, Publish: publish}
}

type customerReq struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	StoreID   *uint64 `json:"store_id"`
	AddressID *uint64 `json:"address_id"`
	Active    *int    `json:"active"`
}

// List returns all customers; ?q= narrows by id or name substring.
func (h *CustomerHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	list, err := h.Customers.List(ctx, strings.TrimSpace(c.QueryParam("q")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns one customer with its address.
func (h *CustomerHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	det, err := h.Customers.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, det)
}

// Create inserts a new active customer.  store_id defaults to 1.
func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerReq
	if err := c.Bind(&req); err != nil || req == (customerReq{}) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Request body is required"})
	}
	if req.FirstName == nil || strings.TrimSpace(*req.FirstName) == "" ||
		req.LastName == nil || strings.TrimSpace(*req.LastName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name and last_name are required"})
	}

	nc := repository.NewCustomer{
		FirstName: strings.TrimSpace(*req.FirstName),
		LastName:  strings.TrimSpace(*req.LastName),
		Email:     req.Email,
		StoreID:   1,
		AddressID: req.AddressID,
	}
	if req.StoreID != nil && *req.StoreID != 0 {
		nc.StoreID = *req.StoreID
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	det, err := h.Customers.Create(ctx, nc)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": fmt.Sprintf("Failed to create customer: %v", err)})
	}
	return c.JSON(http.StatusCreated, det)
}

// Update applies a partial update; absent fields keep their value.
func (h *CustomerHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
	}
	var req customerReq
	if err := c.Bind(&req); err != nil || req == (customerReq{}) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Request body is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	det, err := h.Customers.Update(ctx, id, repository.CustomerUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		StoreID:   req.StoreID,
		AddressID: req.AddressID,
		Active:    req.Active,
	})
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": fmt.Sprintf("Failed to update customer: %v", err)})
	}
	return c.JSON(http.StatusOK, det)
}

// Delete removes the customer unless it still holds active rentals.
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Customers.Delete(ctx, id); err != nil {
		var active *repository.ActiveRentalsError
		switch {
		case errors.Is(err, repository.ErrCustomerNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
		case errors.As(err, &active):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": fmt.Sprintf("Cannot delete customer with %d active rentals", active.Count),
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": fmt.Sprintf("Failed to delete customer: %v", err)})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Customer deleted successfully"})
}

// Rentals returns the customer's full rental history partitioned into
// active and past.
func (h *CustomerHandler) Rentals(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	det, err := h.Customers.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	history, err := h.RentalStore.HistoryByCustomer(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	active := make([]repository.CustomerRental, 0)
	past := make([]repository.CustomerRental, 0)
	for _, r := range history {
		if r.IsReturned {
			past = append(past, r)
		} else {
			active = append(active, r)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"customer":       det,
		"active_rentals": active,
		"past_rentals":   past,
		"total_rentals":  len(history),
		"active_count":   len(active),
		"past_count":     len(past),
	})
}

// ReturnRental marks one of the customer's rentals as returned.  A
// rental belonging to another customer reads as not found.
func (h *CustomerHandler) ReturnRental(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
	}
	rid, ok := parseID(c, "rid")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Rental not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Customers.GetDetail(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	rec, err := h.RentalStore.ReturnForCustomer(ctx, id, rid)
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
		"customer_id": rec.CustomerID,
		"return_date": rec.ReturnDate.Format(time.RFC3339),
		"message":     "Film returned successfully",
	})
}
