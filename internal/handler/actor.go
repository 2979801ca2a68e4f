package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pcordova/dvd-rental-api/internal/repository"
)

// ActorStore is the slice of the actor repository the catalog endpoints need.
type ActorStore interface {
	GetByID(ctx context.Context, actorID uint64) (*repository.ActorDetail, error)
	Top5(ctx context.Context) ([]repository.ActorFilmCount, error)
	Top5RentedFilms(ctx context.Context, actorID uint64) ([]repository.FilmRentalCount, error)
}

// ActorHandler serves the actor side of the catalog.
type ActorHandler struct {
	Actors ActorStore
}

func NewActorHandler(a ActorStore) *ActorHandler { return &ActorHandler{Actors: a} }

// Detail returns one actor.
func (h *ActorHandler) Detail(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Actor not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	det, err := h.Actors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Actor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, det)
}

// Top5 returns the five actors appearing in the most stocked films.
func (h *ActorHandler) Top5(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	list, err := h.Actors.Top5(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, list)
}

// Top5Films returns the five most rented films featuring the actor.
// An unknown actor yields an empty list, matching the list endpoints.
func (h *ActorHandler) Top5Films(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Actor not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	list, err := h.Actors.Top5RentedFilms(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, list)
}
