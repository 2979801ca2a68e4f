package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcordova/dvd-rental-api/internal/model"
)

func strptr(s string) *string { return &s }

func TestFilmDetailProjection(t *testing.T) {
	year := uint16(2006)
	length := uint16(86)
	f := model.Film{
		ID:              14,
		Title:           "ALICE FANTASIA",
		Description:     strptr("A Emotional Drama"),
		ReleaseYear:     &year,
		Length:          &length,
		Rating:          "NC-17",
		RentalDuration:  6,
		RentalRate:      0.99,
		ReplacementCost: 23.99,
	}
	det := filmDetail(f, &model.Category{ID: 4, Name: "Classics"})

	assert.Equal(t, uint64(14), det.FilmID)
	require.NotNil(t, det.ReleaseYear)
	assert.Equal(t, 2006, *det.ReleaseYear)
	require.NotNil(t, det.Length)
	assert.Equal(t, 86, *det.Length)
	require.NotNil(t, det.Category)
	assert.Equal(t, "Classics", *det.Category)
	assert.NotNil(t, det.Actors) // empty slice, not null, in JSON
}

func TestFilmDetailNoCategoryNoYear(t *testing.T) {
	det := filmDetail(model.Film{ID: 2, Title: "ACE GOLDFINGER"}, nil)

	assert.Nil(t, det.Category)
	assert.Nil(t, det.ReleaseYear)
	assert.Nil(t, det.Length)
}

func TestActorDetailProjection(t *testing.T) {
	upd := time.Date(2026, 2, 15, 4, 34, 33, 0, time.UTC)
	det := actorDetail(model.Actor{ID: 1, FirstName: "PENELOPE", LastName: "GUINESS", LastUpdate: upd})

	require.NotNil(t, det.LastUpdate)
	assert.Equal(t, "2026-02-15T04:34:33Z", *det.LastUpdate)
}

func TestActorDetailZeroTimestamp(t *testing.T) {
	det := actorDetail(model.Actor{ID: 9, FirstName: "JOE", LastName: "SWANK"})
	assert.Nil(t, det.LastUpdate)
}

func TestCustomerDetailProjection(t *testing.T) {
	addrID := uint64(5)
	created := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	mc := model.Customer{
		ID:         3,
		StoreID:    1,
		FirstName:  "LINDA",
		LastName:   "WILLIAMS",
		Email:      strptr("linda@example.com"),
		AddressID:  &addrID,
		Active:     1,
		CreateDate: created,
	}
	addr := &model.Address{
		ID:       5,
		Address:  "1913 Hanoi Way",
		District: "Nagasaki",
		CityID:   463,
		Phone:    strptr("28303384290"),
	}
	det := customerDetail(mc, addr)

	require.NotNil(t, det.CreateDate)
	assert.Equal(t, "2026-01-10T12:00:00Z", *det.CreateDate)
	assert.Nil(t, det.LastUpdate)
	require.NotNil(t, det.Address)
	assert.Equal(t, uint64(5), det.Address.AddressID)
	assert.Equal(t, "Nagasaki", det.Address.District)
	assert.Nil(t, det.Address.PostalCode)
}

func TestCustomerDetailNoAddress(t *testing.T) {
	det := customerDetail(model.Customer{ID: 7, FirstName: "MARIA", LastName: "MILLER"}, nil)
	assert.Nil(t, det.Address)
	assert.Nil(t, det.AddressID)
}

func TestRentalViewExpectedReturnDate(t *testing.T) {
	rented := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ren := model.Rental{ID: 42, RentalDate: rented, InventoryID: 100, CustomerID: 3}
	det := rentalView(ren, "LINDA WILLIAMS", 14, "ALICE FANTASIA", 0.99, 6)

	assert.Equal(t, "2026-03-01T10:00:00Z", det.RentalDate)
	assert.Equal(t, "2026-03-07T10:00:00Z", det.ExpectedReturnDate)
	assert.False(t, det.IsReturned)
	assert.Nil(t, det.ReturnDate)
	assert.Equal(t, "LINDA WILLIAMS", det.CustomerName)
}

func TestRentalViewReturned(t *testing.T) {
	rented := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	returned := rented.Add(48 * time.Hour)
	ren := model.Rental{ID: 42, RentalDate: rented, ReturnDate: &returned, InventoryID: 100, CustomerID: 3}
	det := rentalView(ren, "LINDA WILLIAMS", 14, "ALICE FANTASIA", 0.99, 6)

	assert.True(t, det.IsReturned)
	require.NotNil(t, det.ReturnDate)
	assert.Equal(t, "2026-03-03T10:00:00Z", *det.ReturnDate)
}

func TestCustomerRentalViewOpenAndClosed(t *testing.T) {
	rented := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	open := customerRentalView(model.Rental{ID: 7, RentalDate: rented, InventoryID: 12}, 3, "ADAPTATION HOLES", 2.99)
	assert.False(t, open.IsReturned)
	assert.Nil(t, open.ReturnDate)

	back := rented.Add(24 * time.Hour)
	closed := customerRentalView(model.Rental{ID: 8, RentalDate: rented, ReturnDate: &back, InventoryID: 13}, 3, "ADAPTATION HOLES", 2.99)
	assert.True(t, closed.IsReturned)
	require.NotNil(t, closed.ReturnDate)
	assert.Equal(t, "2026-04-03T09:30:00Z", *closed.ReturnDate)
}
