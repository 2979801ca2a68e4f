package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/pcordova/dvd-rental-api/internal/model"
)

// FilmRepo serves read-only catalog lookups and rankings over films.
// There is no write path for films; inventory and rental rows are only
// joined for aggregation.
type FilmRepo struct {
	db *sql.DB
}

// NewFilmRepo returns a new FilmRepo bound to the given database.
func NewFilmRepo(db *sql.DB) *FilmRepo { return &FilmRepo{db: db} }

// FilmCastMember is one entry of a film's cast list.
type FilmCastMember struct {
	ActorID   uint64 `json:"actor_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FilmDetail is the full film view: film columns plus the resolved
// category and the cast ordered by first then last name.
type FilmDetail struct {
	FilmID          uint64           `json:"film_id"`
	Title           string           `json:"title"`
	Description     *string          `json:"description"`
	ReleaseYear     *int             `json:"release_year"`
	Length          *int             `json:"length"`
	Rating          string           `json:"rating"`
	RentalDuration  int              `json:"rental_duration"`
	RentalRate      float64          `json:"rental_rate"`
	ReplacementCost float64          `json:"replacement_cost"`
	Category        *string          `json:"category"`
	Actors          []FilmCastMember `json:"actors"`
}

// FilmRentalCount is one row of a rental-count ranking.
type FilmRentalCount struct {
	FilmID  uint64 `json:"film_id"`
	Title   string `json:"title"`
	Rentals int    `json:"rentals"`
}

// Detail returns the full film view or ErrFilmNotFound.  When the
// join table carries more than one category for a film (it should
// not), the first row wins; there is no defined tie-break.
func (r *FilmRepo) Detail(ctx context.Context, filmID uint64) (*FilmDetail, error) {
	const q = `SELECT f.film_id, f.title, f.description, f.release_year, f.language_id,
	                  f.length, f.rating, f.rental_duration, f.rental_rate,
	                  f.replacement_cost, f.last_update,
	                  cat.category_id, cat.name
	           FROM film f
	           LEFT JOIN film_category fc ON fc.film_id = f.film_id
	           LEFT JOIN category cat ON cat.category_id = fc.category_id
	           WHERE f.film_id = ?
	           LIMIT 1`
	var f model.Film
	var description, rating, catName sql.NullString
	var releaseYear, length, catID sql.NullInt64
	err := r.db.QueryRowContext(ctx, q, filmID).Scan(
		&f.ID, &f.Title, &description, &releaseYear, &f.LanguageID,
		&length, &rating, &f.RentalDuration, &f.RentalRate,
		&f.ReplacementCost, &f.LastUpdate,
		&catID, &catName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFilmNotFound
		}
		return nil, err
	}
	if description.Valid {
		v := description.String
		f.Description = &v
	}
	if rating.Valid {
		f.Rating = rating.String
	}
	if releaseYear.Valid {
		v := uint16(releaseYear.Int64)
		f.ReleaseYear = &v
	}
	if length.Valid {
		v := uint16(length.Int64)
		f.Length = &v
	}
	var category *model.Category
	if catID.Valid {
		category = &model.Category{ID: uint64(catID.Int64), Name: catName.String}
	}
	det := filmDetail(f, category)

	const castQ = `SELECT a.actor_id, a.first_name, a.last_name
	               FROM film_actor fa
	               JOIN actor a ON a.actor_id = fa.actor_id
	               WHERE fa.film_id = ?
	               ORDER BY a.first_name, a.last_name`
	rows, err := r.db.QueryContext(ctx, castQ, filmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m FilmCastMember
		if err := rows.Scan(&m.ActorID, &m.FirstName, &m.LastName); err != nil {
			return nil, err
		}
		det.Actors = append(det.Actors, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return det, nil
}

// filmDetail projects a film row and its resolved category into the
// response view.
func filmDetail(f model.Film, category *model.Category) *FilmDetail {
	det := &FilmDetail{
		FilmID:          f.ID,
		Title:           f.Title,
		Description:     f.Description,
		Rating:          f.Rating,
		RentalDuration:  f.RentalDuration,
		RentalRate:      f.RentalRate,
		ReplacementCost: f.ReplacementCost,
		Actors:          make([]FilmCastMember, 0),
	}
	if f.ReleaseYear != nil {
		v := int(*f.ReleaseYear)
		det.ReleaseYear = &v
	}
	if f.Length != nil {
		v := int(*f.Length)
		det.Length = &v
	}
	if category != nil {
		det.Category = &category.Name
	}
	return det
}

// Top5Rented ranks films by all-time rental count, descending.  Ties
// fall back to the store's default row order.
func (r *FilmRepo) Top5Rented(ctx context.Context) ([]FilmRentalCount, error) {
	const q = `SELECT f.film_id, f.title, COUNT(r.rental_id) AS rentals
	           FROM film f
	           JOIN inventory i ON i.film_id = f.film_id
	           JOIN rental r ON r.inventory_id = i.inventory_id
	           GROUP BY f.film_id, f.title
	           ORDER BY rentals DESC
	           LIMIT 5`
	return r.queryRanking(ctx, q)
}

// SearchByTitle returns ids of films whose title contains the term,
// ranked exact > prefix > suffix > substring, then alphabetically.
func (r *FilmRepo) SearchByTitle(ctx context.Context, term string) ([]uint64, error) {
	t := strings.ToLower(strings.TrimSpace(term))
	const q = `SELECT film_id
	           FROM film
	           WHERE LOWER(title) LIKE ?
	           ORDER BY CASE
	               WHEN LOWER(title) = ? THEN 0
	               WHEN LOWER(title) LIKE ? THEN 1
	               WHEN LOWER(title) LIKE ? THEN 2
	               ELSE 3
	           END, title ASC`
	return r.queryIDs(ctx, q, "%"+t+"%", t, t+"%", "%"+t)
}

// SearchByActor returns ids of films featuring an actor whose first,
// last or full name contains the term, ordered by title.
func (r *FilmRepo) SearchByActor(ctx context.Context, term string) ([]uint64, error) {
	t := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	const q = `SELECT f.film_id
	           FROM film f
	           JOIN film_actor fa ON fa.film_id = f.film_id
	           JOIN actor a ON a.actor_id = fa.actor_id
	           WHERE LOWER(a.first_name) LIKE ?
	              OR LOWER(a.last_name) LIKE ?
	              OR LOWER(CONCAT(a.first_name, ' ', a.last_name)) LIKE ?
	           GROUP BY f.film_id, f.title
	           ORDER BY f.title ASC`
	return r.queryIDs(ctx, q, t, t, t)
}

// SearchByGenre returns ids of films whose category name contains the
// term, ordered by title.
func (r *FilmRepo) SearchByGenre(ctx context.Context, term string) ([]uint64, error) {
	t := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	const q = `SELECT f.film_id
	           FROM film f
	           JOIN film_category fc ON fc.film_id = f.film_id
	           JOIN category cat ON cat.category_id = fc.category_id
	           WHERE LOWER(cat.name) LIKE ?
	           GROUP BY f.film_id, f.title
	           ORDER BY f.title ASC`
	return r.queryIDs(ctx, q, t)
}

func (r *FilmRepo) queryRanking(ctx context.Context, q string, args ...any) ([]FilmRentalCount, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
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

func (r *FilmRepo) queryIDs(ctx context.Context, q string, args ...any) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
