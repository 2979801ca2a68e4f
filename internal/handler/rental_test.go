package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcordova/dvd-rental-api/internal/queue"
	"github.com/pcordova/dvd-rental-api/internal/repository"
)

type fakeRentalStore struct {
	create func(ctx context.Context, customerID, filmID, staffID uint64) (*repository.RentalDetail, error)
	detail func(ctx context.Context, rentalID uint64) (*repository.RentalDetail, error)
	ret    func(ctx context.Context, rentalID uint64) (*repository.ReturnReceipt, error)
}

func (f *fakeRentalStore) Create(ctx context.Context, customerID, filmID, staffID uint64) (*repository.RentalDetail, error) {
	return f.create(ctx, customerID, filmID, staffID)
}

func (f *fakeRentalStore) GetDetail(ctx context.Context, rentalID uint64) (*repository.RentalDetail, error) {
	return f.detail(ctx, rentalID)
}

func (f *fakeRentalStore) Return(ctx context.Context, rentalID uint64) (*repository.ReturnReceipt, error) {
	return f.ret(ctx, rentalID)
}

func sampleDetail() *repository.RentalDetail {
	return &repository.RentalDetail{
		RentalID:           11,
		CustomerID:         5,
		CustomerName:       "Mary Smith",
		FilmID:             3,
		FilmTitle:          "ACADEMY DINOSAUR",
		RentalDate:         "2026-08-28T10:00:00Z",
		ExpectedReturnDate: "2026-09-03T10:00:00Z",
		RentalRate:         0.99,
		RentalDurationDays: 6,
		InventoryID:        42,
	}
}

func TestCreateRentalMissingFields(t *testing.T) {
	h := NewRentalHandler(&fakeRentalStore{}, nil, nil)
	c, rec := postJSON(echo.New(), "/api/rentals", `{"customer_id":5}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "customer_id and film_id are required")
}

func TestCreateRentalCustomerNotFound(t *testing.T) {
	store := &fakeRentalStore{
		create: func(ctx context.Context, customerID, filmID, staffID uint64) (*repository.RentalDetail, error) {
			return nil, repository.ErrCustomerNotFound
		},
	}
	h := NewRentalHandler(store, nil, nil)
	c, rec := postJSON(echo.New(), "/api/rentals", `{"customer_id":999,"film_id":3}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Customer not found")
}

func TestCreateRentalNoInventory(t *testing.T) {
	store := &fakeRentalStore{
		create: func(ctx context.Context, customerID, filmID, staffID uint64) (*repository.RentalDetail, error) {
			return nil, repository.ErrNoInventoryAvailable
		},
	}
	h := NewRentalHandler(store, nil, nil)
	c, rec := postJSON(echo.New(), "/api/rentals", `{"customer_id":5,"film_id":3}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Film is not available for rental")
}

func TestCreateRentalSuccess(t *testing.T) {
	var gotStaff uint64
	store := &fakeRentalStore{
		create: func(ctx context.Context, customerID, filmID, staffID uint64) (*repository.RentalDetail, error) {
			gotStaff = staffID
			return sampleDetail(), nil
		},
	}
	var published []queue.RentalEvent
	h := NewRentalHandler(store, nil, func(ctx context.Context, ev queue.RentalEvent) error {
		published = append(published, ev)
		return nil
	})

	c, rec := postJSON(echo.New(), "/api/rentals", `{"customer_id":5,"film_id":3}`)
	c.Set("staff_id", uint64(7))
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint64(7), gotStaff)
	assert.Contains(t, rec.Body.String(), `"rental_id":11`)
	assert.Contains(t, rec.Body.String(), `"return_date":null`)
	assert.Contains(t, rec.Body.String(), `"expected_return_date":"2026-09-03T10:00:00Z"`)

	require.Len(t, published, 1)
	assert.Equal(t, queue.EventRentalCreated, published[0].Event)
	assert.Equal(t, uint64(11), published[0].RentalID)
	assert.Equal(t, uint64(7), published[0].StaffID)
}

func TestRentalDetailNotFound(t *testing.T) {
	store := &fakeRentalStore{
		detail: func(ctx context.Context, rentalID uint64) (*repository.RentalDetail, error) {
			return nil, repository.ErrRentalNotFound
		},
	}
	h := NewRentalHandler(store, nil, nil)
	c, rec := getReq(echo.New(), "/api/rentals/99", "id", "99")
	require.NoError(t, h.Detail(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rental not found")
}

func TestRentalDetailLegacyStatus(t *testing.T) {
	store := &fakeRentalStore{
		detail: func(ctx context.Context, rentalID uint64) (*repository.RentalDetail, error) {
			return sampleDetail(), nil
		},
	}
	h := NewRentalHandler(store, nil, nil)
	c, rec := getReq(echo.New(), "/api/rentals/11", "id", "11")
	require.NoError(t, h.Detail(c))
	// Kiosk clients assert on 201 here.
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestReturnAlreadyReturned(t *testing.T) {
	store := &fakeRentalStore{
		ret: func(ctx context.Context, rentalID uint64) (*repository.ReturnReceipt, error) {
			return nil, repository.ErrAlreadyReturned
		},
	}
	h := NewRentalHandler(store, nil, nil)
	c, rec := putReq(echo.New(), "/api/rentals/11/return", "id", "11")
	require.NoError(t, h.Return(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Film has already been returned")
}

func TestReturnSuccess(t *testing.T) {
	when := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	store := &fakeRentalStore{
		ret: func(ctx context.Context, rentalID uint64) (*repository.ReturnReceipt, error) {
			return &repository.ReturnReceipt{RentalID: rentalID, CustomerID: 5, ReturnDate: when}, nil
		},
	}
	var published []queue.RentalEvent
	h := NewRentalHandler(store, nil, func(ctx context.Context, ev queue.RentalEvent) error {
		published = append(published, ev)
		return nil
	})
	c, rec := putReq(echo.New(), "/api/rentals/11/return", "id", "11")
	require.NoError(t, h.Return(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rental_id":11`)
	assert.Contains(t, rec.Body.String(), `"return_date":"2026-08-28T12:00:00Z"`)
	assert.Contains(t, rec.Body.String(), "Film returned successfully")

	require.Len(t, published, 1)
	assert.Equal(t, queue.EventRentalReturned, published[0].Event)
}

// getReq and putReq build contexts with one path parameter set.
func getReq(e *echo.Echo, target, pname, pval string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(pname)
	c.SetParamValues(pval)
	return c, rec
}

func putReq(e *echo.Echo, target, pname, pval string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPut, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(pname)
	c.SetParamValues(pval)
	return c, rec
}
