package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pcordova/dvd-rental-api/internal/repository"
)

// FilmStore is the slice of the film repository the catalog endpoints need.
type FilmStore interface {
	Detail(ctx context.Context, filmID uint64) (*repository.FilmDetail, error)
	Top5Rented(ctx context.Context) ([]repository.FilmRentalCount, error)
	SearchByTitle(ctx context.Context, term string) ([]uint64, error)
	SearchByActor(ctx context.Context, term string) ([]uint64, error)
	SearchByGenre(ctx context.Context, term string) ([]uint64, error)
}

// FilmHandler serves the film side of the catalog.
type FilmHandler struct {
	Films FilmStore
}

func NewFilmHandler(f FilmStore) *FilmHandler { return &FilmHandler{Films: f} }

// Top5 returns the five most rented films of all time.
func (h *FilmHandler) Top5(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	list, err := h.Films.Top5Rented(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, list)
}

// Detail returns one film with category and cast.
func (h *FilmHandler) Detail(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Film not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	det, err := h.Films.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFilmNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Film not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, det)
}

// SearchTitle ranks matches exact > prefix > suffix > substring.
func (h *FilmHandler) SearchTitle(c echo.Context) error {
	return h.search(c, h.Films.SearchByTitle)
}

// SearchActor matches films by cast member name.
func (h *FilmHandler) SearchActor(c echo.Context) error {
	return h.search(c, h.Films.SearchByActor)
}

// SearchGenre matches films by category name.
func (h *FilmHandler) SearchGenre(c echo.Context) error {
	return h.search(c, h.Films.SearchByGenre)
}

// Each hit is re-expanded through Detail; fine at catalog scale.
func (h *FilmHandler) search(c echo.Context, find func(context.Context, string) ([]uint64, error)) error {
	term := strings.TrimSpace(c.QueryParam("q"))
	if term == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Search term is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ids, err := find(ctx, term)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	out := make([]*repository.FilmDetail, 0, len(ids))
	for _, id := range ids {
		det, err := h.Films.Detail(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrFilmNotFound) {
				continue
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		out = append(out, det)
	}
	return c.JSON(http.StatusOK, out)
}
