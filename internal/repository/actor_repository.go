package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pcordova/dvd-rental-api/internal/model"
)

// ActorRepo serves read-only lookups and rankings over actors.
type ActorRepo struct {
	db *sql.DB
}

// NewActorRepo returns a new ActorRepo bound to the given database.
func NewActorRepo(db *sql.DB) *ActorRepo { return &ActorRepo{db: db} }

// ActorDetail is the actor view returned by the detail endpoint.
type ActorDetail struct {
	ActorID    uint64  `json:"actor_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	LastUpdate *string `json:"last_update"`
}

// ActorFilmCount ranks an actor by the number of distinct films
// present in inventory they appear in.
type ActorFilmCount struct {
	ActorID      uint64 `json:"actor_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	FilmsInStore int    `json:"films_in_store"`
}

// GetByID returns a single actor or ErrActorNotFound.
func (r *ActorRepo) GetByID(ctx context.Context, actorID uint64) (*ActorDetail, error) {
	const q = `SELECT actor_id, first_name, last_name, last_update FROM actor WHERE actor_id = ?`
	var a model.Actor
	err := r.db.QueryRowContext(ctx, q, actorID).Scan(&a.ID, &a.FirstName, &a.LastName, &a.LastUpdate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return actorDetail(a), nil
}

// actorDetail projects an actor row into the response view.
func actorDetail(a model.Actor) *ActorDetail {
	det := &ActorDetail{ActorID: a.ID, FirstName: a.FirstName, LastName: a.LastName}
	if !a.LastUpdate.IsZero() {
		iso := a.LastUpdate.UTC().Format(time.RFC3339)
		det.LastUpdate = &iso
	}
	return det
}

// Top5 ranks actors by the count of distinct films in inventory they
// appear in (not by rental volume).  Ties break by last name then
// first name, ascending.
func (r *ActorRepo) Top5(ctx context.Context) ([]ActorFilmCount, error) {
	const q = `SELECT a.actor_id, a.first_name, a.last_name,
	                  COUNT(DISTINCT i.film_id) AS films_in_store
	           FROM actor a
	           JOIN film_actor fa ON fa.actor_id = a.actor_id
	           JOIN inventory i ON i.film_id = fa.film_id
	           GROUP BY a.actor_id, a.first_name, a.last_name
	           ORDER BY films_in_store DESC, a.last_name ASC, a.first_name ASC
	           LIMIT 5`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ActorFilmCount, 0, 5)
	for rows.Next() {
		var ac ActorFilmCount
		if err := rows.Scan(&ac.ActorID, &ac.FirstName, &ac.LastName, &ac.FilmsInStore); err != nil {
			return nil, err
		}
		out = append(out, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Top5RentedFilms ranks the actor's films by raw rental count,
// descending.  No tie-break beyond the store's default order.
func (r *ActorRepo) Top5RentedFilms(ctx context.Context, actorID uint64) ([]FilmRentalCount, error) {
	const q = `SELECT f.film_id, f.title, COUNT(r.rental_id) AS rentals
	           FROM film f
	           JOIN film_actor fa ON fa.film_id = f.film_id
	           JOIN inventory i ON i.film_id = f.film_id
	           JOIN rental r ON r.inventory_id = i.inventory_id
	           WHERE fa.actor_id = ?
	           GROUP BY f.film_id, f.title
	           ORDER BY rentals DESC
	           LIMIT 5`
	rows, err := r.db.QueryContext(ctx, q, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]FilmRentalCount, 0, 5)
	for rows.Next() {
		var fc FilmRentalCount
		if err := rows.Scan(&fc.FilmID, &fc.Title, &fc.Rentals); err != nil {
			return nil, err
		}
		out = append(out, fc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
