package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinevault/movie-catalog/internal/middleware"
	"github.com/cinevault/movie-catalog/internal/repository"
	"github.com/cinevault/movie-catalog/internal/service"
)

// ListHandler serves both favorites and watchlist routes; the kind is fixed
// per route at registration time so one handler covers both tables.
type ListHandler struct {
	Service *service.ListService
}

func NewListHandler(s *service.ListService) *ListHandler {
	return &ListHandler{Service: s}
}

type addListReq struct {
	MovieID string `json:"movie_id"`
}

// Get returns the caller's list, most recently added first.
func (h *ListHandler) Get(kind repository.ListKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		movies, err := h.Service.Movies(ctx, kind, middleware.UserID(c))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
		}
		return c.JSON(http.StatusOK, movies)
	}
}

// Add puts a movie on the caller's list.  A duplicate answers 409; the UI
// treats that as a resync signal rather than a user-facing failure.
func (h *ListHandler) Add(kind repository.ListKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req addListReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		req.MovieID = strings.TrimSpace(req.MovieID)
		if req.MovieID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id required"})
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		entry, err := h.Service.Add(ctx, kind, middleware.UserID(c), req.MovieID)
		if err != nil {
			switch err {
			case repository.ErrDuplicateEntry:
				return c.JSON(http.StatusConflict, echo.Map{"error": "already on list"})
			case repository.ErrNotFound:
				return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
			default:
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
			}
		}
		return c.JSON(http.StatusCreated, entry)
	}
}

// Remove takes a movie off the caller's list.  Always 204: removing an
// entry that is not there is a success, not an error.
func (h *ListHandler) Remove(kind repository.ListKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		if err := h.Service.Remove(ctx, kind, middleware.UserID(c), c.Param("movieId")); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
		}
		return c.NoContent(http.StatusNoContent)
	}
}
