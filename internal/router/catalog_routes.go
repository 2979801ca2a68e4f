package router

import (
	"github.com/labstack/echo/v4"

	"github.com/pcordova/dvd-rental-api/internal/handler"
)

// RegisterCatalog registers the read-only film and actor endpoints.
// All of them are unauthenticated; cache is the response-cache
// middleware (pass nil-safe no-op when Redis is off).  Static segments
// (top5, search) are registered alongside :id — echo routes them by
// specificity.
func RegisterCatalog(e *echo.Echo, f *handler.FilmHandler, a *handler.ActorHandler, cache echo.MiddlewareFunc) {
	mw := []echo.MiddlewareFunc{}
	if cache != nil {
		mw = append(mw, cache)
	}

	films := e.Group("/api/films", mw...)
	films.GET("/top5", f.Top5)
	films.GET("/:id", f.Detail)
	films.GET("/search/title", f.SearchTitle)
	films.GET("/search/actor", f.SearchActor)
	films.GET("/search/genre", f.SearchGenre)

	actors := e.Group("/api/actors", mw...)
	actors.GET("/top5", a.Top5)
	actors.GET("/:id", a.Detail)
	actors.GET("/:id/top5films", a.Top5Films)
}
