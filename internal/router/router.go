// Package router maps the HTTP surface onto handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cinevault/movie-catalog/internal/handler"
	"github.com/cinevault/movie-catalog/internal/middleware"
	"github.com/cinevault/movie-catalog/internal/repository"
)

// Handlers groups everything the router needs to wire.
type Handlers struct {
	Auth    *handler.AuthHandler
	Movies  *handler.MovieHandler
	Lists   *handler.ListHandler
	Reviews *handler.ReviewHandler
	Users   *handler.UserHandler
}

// Register wires all routes.  cache is applied only to the public catalog
// reads; authenticated routes bypass it so one user's data never serves
// another's request.
func Register(e *echo.Echo, h Handlers, jwtSecret string, cache echo.MiddlewareFunc) {
	e.GET("/health", handler.Health)

	// Signup and login are open by definition.
	auth := e.Group("/auth")
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/login", h.Auth.Login)
	auth.GET("/me", h.Auth.Me, middleware.JWTAuth(jwtSecret))

	// Public catalog browsing, cacheable.
	e.GET("/movies", h.Movies.List, cache)
	e.GET("/movies/:id", h.Movies.Get, cache)
	e.GET("/reviews/movie/:movieId", h.Reviews.ListForMovie, cache)

	// Catalog curation requires the admin role on top of a valid token.
	admin := e.Group("/movies", middleware.JWTAuth(jwtSecret), middleware.RequireRole("admin"))
	admin.POST("", h.Movies.Create)
	admin.PUT("/:id", h.Movies.Update)
	admin.DELETE("/:id", h.Movies.Delete)
	admin.POST("/import", h.Movies.Import)

	// Personal lists: any authenticated user, always scoped to the caller.
	authed := e.Group("", middleware.JWTAuth(jwtSecret))
	authed.GET("/favorites", h.Lists.Get(repository.ListFavorites))
	authed.POST("/favorites", h.Lists.Add(repository.ListFavorites))
	authed.DELETE("/favorites/:movieId", h.Lists.Remove(repository.ListFavorites))
	authed.GET("/watchlist", h.Lists.Get(repository.ListWatchlist))
	authed.POST("/watchlist", h.Lists.Add(repository.ListWatchlist))
	authed.DELETE("/watchlist/:movieId", h.Lists.Remove(repository.ListWatchlist))

	authed.POST("/reviews/movie/:movieId", h.Reviews.Upsert)

	authed.GET("/users/me", h.Users.GetMe)
	authed.PATCH("/users/me", h.Users.UpdateMe)
	authed.POST("/users/change-password", h.Users.ChangePassword)

	// Public profile pages.
	e.GET("/users/:id", h.Users.PublicProfile)
}
