package handler

import "github.com/pcordova/dvd-rental-api/internal/repository"

// The concrete repositories satisfy the store interfaces.
var (
	_ StaffStore          = (*repository.StaffRepo)(nil)
	_ FilmStore           = (*repository.FilmRepo)(nil)
	_ ActorStore          = (*repository.ActorRepo)(nil)
	_ CustomerStore       = (*repository.CustomerRepo)(nil)
	_ RentalStore         = (*repository.RentalRepo)(nil)
	_ CustomerRentalStore = (*repository.RentalRepo)(nil)
)
