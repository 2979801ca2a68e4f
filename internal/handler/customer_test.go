package handler

import (
	"context"
	"encoding/json"
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

type fakeCustomerStore struct {
	list   func(ctx context.Context, term string) ([]repository.CustomerDetail, error)
	detail func(ctx context.Context, customerID uint64) (*repository.CustomerDetail, error)
	create func(ctx context.Context, nc repository.NewCustomer) (*repository.CustomerDetail, error)
	update func(ctx context.Context, customerID uint64, u repository.CustomerUpdate) (*repository.CustomerDetail, error)
	del    func(ctx context.Context, customerID uint64) error
}

func (f *fakeCustomerStore) List(ctx context.Context, term string) ([]repository.CustomerDetail, error) {
	return f.list(ctx, term)
}

func (f *fakeCustomerStore) GetDetail(ctx context.Context, customerID uint64) (*repository.CustomerDetail, error) {
	return f.detail(ctx, customerID)
}

func (f *fakeCustomerStore) Create(ctx context.Context, nc repository.NewCustomer) (*repository.CustomerDetail, error) {
	return f.create(ctx, nc)
}

func (f *fakeCustomerStore) Update(ctx context.Context, customerID uint64, u repository.CustomerUpdate) (*repository.CustomerDetail, error) {
	return f.update(ctx, customerID, u)
}

func (f *fakeCustomerStore) Delete(ctx context.Context, customerID uint64) error {
	return f.del(ctx, customerID)
}

type fakeCustomerRentalStore struct {
	history func(ctx context.Context, customerID uint64) ([]repository.CustomerRental, error)
	ret     func(ctx context.Context, customerID, rentalID uint64) (*repository.ReturnReceipt, error)
}

func (f *fakeCustomerRentalStore) HistoryByCustomer(ctx context.Context, customerID uint64) ([]repository.CustomerRental, error) {
	return f.history(ctx, customerID)
}

func (f *fakeCustomerRentalStore) ReturnForCustomer(ctx context.Context, customerID, rentalID uint64) (*repository.ReturnReceipt, error) {
	return f.ret(ctx, customerID, rentalID)
}

func maryDetail() *repository.CustomerDetail {
	return &repository.CustomerDetail{CustomerID: 5, FirstName: "Mary", LastName: "Smith", Active: 1}
}

func existingCustomers() *fakeCustomerStore {
	return &fakeCustomerStore{
		detail: func(ctx context.Context, customerID uint64) (*repository.CustomerDetail, error) {
			if customerID == 5 {
				return maryDetail(), nil
			}
			return nil, repository.ErrCustomerNotFound
		},
	}
}

func TestCreateCustomerMissingNames(t *testing.T) {
	h := NewCustomerHandler(&fakeCustomerStore{}, nil, nil, nil)
	c, rec := postJSON(echo.New(), "/api/customers", `{"first_name":"Mary"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "first_name and last_name are required")
}

func TestCreateCustomerDefaultsStore(t *testing.T) {
	var got repository.NewCustomer
	store := &fakeCustomerStore{
		create: func(ctx context.Context, nc repository.NewCustomer) (*repository.CustomerDetail, error) {
			got = nc
			return maryDetail(), nil
		},
	}
	h := NewCustomerHandler(store, nil, nil, nil)
	c, rec := postJSON(echo.New(), "/api/customers", `{"first_name":"Mary","last_name":"Smith"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint64(1), got.StoreID)
	assert.Equal(t, "Mary", got.FirstName)
	assert.Nil(t, got.Email)
}

func TestUpdateCustomerPartialFields(t *testing.T) {
	var got repository.CustomerUpdate
	store := &fakeCustomerStore{
		update: func(ctx context.Context, customerID uint64, u repository.CustomerUpdate) (*repository.CustomerDetail, error) {
			got = u
			return maryDetail(), nil
		},
	}
	h := NewCustomerHandler(store, nil, nil, nil)
	c, rec := postJSON(echo.New(), "/api/customers/5", `{"email":"mary@example.com"}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Email)
	assert.Equal(t, "mary@example.com", *got.Email)
	// unset fields must stay nil so the repository leaves them untouched
	assert.Nil(t, got.FirstName)
	assert.Nil(t, got.LastName)
	assert.Nil(t, got.Active)
}

func TestDeleteCustomerWithActiveRentals(t *testing.T) {
	store := &fakeCustomerStore{
		del: func(ctx context.Context, customerID uint64) error {
			return &repository.ActiveRentalsError{Count: 2}
		},
	}
	h := NewCustomerHandler(store, nil, nil, nil)
	c, rec := deleteReq(echo.New(), "/api/customers/5", "5")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cannot delete customer with 2 active rentals")
}

func TestDeleteCustomerSuccess(t *testing.T) {
	store := &fakeCustomerStore{
		del: func(ctx context.Context, customerID uint64) error { return nil },
	}
	h := NewCustomerHandler(store, nil, nil, nil)
	c, rec := deleteReq(echo.New(), "/api/customers/5", "5")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Customer deleted successfully")
}

func TestCustomerRentalsPartition(t *testing.T) {
	returned := "2026-08-20T10:00:00Z"
	rentals := &fakeCustomerRentalStore{
		history: func(ctx context.Context, customerID uint64) ([]repository.CustomerRental, error) {
			return []repository.CustomerRental{
				{RentalID: 3, FilmTitle: "LATE ONE"},
				{RentalID: 2, FilmTitle: "DONE ONE", ReturnDate: &returned, IsReturned: true},
				{RentalID: 1, FilmTitle: "OLD ONE", ReturnDate: &returned, IsReturned: true},
			}, nil
		},
	}
	h := NewCustomerHandler(existingCustomers(), rentals, nil, nil)
	c, rec := getReq(echo.New(), "/api/customers/5/rentals", "id", "5")
	require.NoError(t, h.Rentals(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Active      []json.RawMessage `json:"active_rentals"`
		Past        []json.RawMessage `json:"past_rentals"`
		Total       int               `json:"total_rentals"`
		ActiveCount int               `json:"active_count"`
		PastCount   int               `json:"past_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 1, resp.ActiveCount)
	assert.Equal(t, 2, resp.PastCount)
	assert.Len(t, resp.Active, 1)
	assert.Len(t, resp.Past, 2)
}

func TestCustomerRentalsUnknownCustomer(t *testing.T) {
	h := NewCustomerHandler(existingCustomers(), &fakeCustomerRentalStore{}, nil, nil)
	c, rec := getReq(echo.New(), "/api/customers/99/rentals", "id", "99")
	require.NoError(t, h.Rentals(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Customer not found")
}

func TestCustomerReturnWrongOwner(t *testing.T) {
	rentals := &fakeCustomerRentalStore{
		ret: func(ctx context.Context, customerID, rentalID uint64) (*repository.ReturnReceipt, error) {
			return nil, repository.ErrRentalNotFound
		},
	}
	h := NewCustomerHandler(existingCustomers(), rentals, nil, nil)
	c, rec := customerRentalReq(echo.New(), "5", "11")
	require.NoError(t, h.ReturnRental(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rental not found")
}

func TestCustomerReturnSuccess(t *testing.T) {
	when := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	rentals := &fakeCustomerRentalStore{
		ret: func(ctx context.Context, customerID, rentalID uint64) (*repository.ReturnReceipt, error) {
			return &repository.ReturnReceipt{RentalID: rentalID, CustomerID: customerID, ReturnDate: when}, nil
		},
	}
	var published []queue.RentalEvent
	h := NewCustomerHandler(existingCustomers(), rentals, nil, func(ctx context.Context, ev queue.RentalEvent) error {
		published = append(published, ev)
		return nil
	})
	c, rec := customerRentalReq(echo.New(), "5", "11")
	require.NoError(t, h.ReturnRental(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"customer_id":5`)
	assert.Contains(t, rec.Body.String(), "Film returned successfully")
	require.Len(t, published, 1)
	assert.Equal(t, queue.EventRentalReturned, published[0].Event)
}

func deleteReq(e *echo.Echo, target, id string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodDelete, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func customerRentalReq(e *echo.Echo, id, rid string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPut, "/api/customers/"+id+"/rentals/"+rid+"/return", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "rid")
	c.SetParamValues(id, rid)
	return c, rec
}
