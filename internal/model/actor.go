package model

import "time"

// Actor mirrors the `actor` table.  Like films, actors are read-only
// catalog data; the cast of a film is resolved through the film_actor
// join table.
type Actor struct {
	ID         uint64    // actor.actor_id
	FirstName  string    // actor.first_name
	LastName   string    // actor.last_name
	LastUpdate time.Time // actor.last_update
}
