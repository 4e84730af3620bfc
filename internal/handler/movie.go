package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinevault/movie-catalog/internal/repository"
	"github.com/cinevault/movie-catalog/internal/tmdb"
)

// MovieHandler exposes catalog browsing to everyone and curation to admins.
type MovieHandler struct {
	Movies   *repository.MovieRepo
	Importer *tmdb.Importer
}

func NewMovieHandler(movies *repository.MovieRepo, importer *tmdb.Importer) *MovieHandler {
	return &MovieHandler{Movies: movies, Importer: importer}
}

type createMovieReq struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	ReleaseYear *int     `json:"release_year"`
	Genre       *string  `json:"genre"`
	Director    *string  `json:"director"`
	Cast        *string  `json:"cast"`
	Rating      *float64 `json:"rating"`
	PosterURL   *string  `json:"poster_url"`
	TrailerURL  *string  `json:"trailer_url"`
}

type importMovieReq struct {
	TMDBID int    `json:"tmdb_id"`
	Query  string `json:"query"`
}

// List returns the catalog newest first; ?q= narrows it by substring match
// over title, description, genre and director.
func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movies, err := h.Movies.Search(ctx, strings.TrimSpace(c.QueryParam("q")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, movies)
}

// Get returns one movie by id.
func (h *MovieHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, m)
}

// Create adds a movie to the catalog (admin only).
func (h *MovieHandler) Create(c echo.Context) error {
	var req createMovieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := repository.Movie{
		Title:       req.Title,
		Description: req.Description,
		ReleaseYear: req.ReleaseYear,
		Genre:       req.Genre,
		Director:    req.Director,
		Cast:        req.Cast,
		Rating:      req.Rating,
		PosterURL:   req.PosterURL,
		TrailerURL:  req.TrailerURL,
	}
	if err := h.Movies.Create(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusCreated, m)
}

// Update partially edits a movie (admin only).  Absent fields keep their
// stored values; the full updated record is returned.
func (h *MovieHandler) Update(c echo.Context) error {
	var req createMovieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := repository.Movie{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		ReleaseYear: req.ReleaseYear,
		Genre:       req.Genre,
		Director:    req.Director,
		Cast:        req.Cast,
		Rating:      req.Rating,
		PosterURL:   req.PosterURL,
		TrailerURL:  req.TrailerURL,
	}
	updated, err := h.Movies.Update(ctx, c.Param("id"), &m)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a movie (admin only).  The store cascades to list entries
// and reviews; deleting an already-deleted movie still answers 204.
func (h *MovieHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Movies.Delete(ctx, c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Import pulls one movie from TMDB (admin only).  Body carries either a
// tmdb_id or a free-text query; the imported record lands in the catalog
// like any admin-created movie.
func (h *MovieHandler) Import(c echo.Context) error {
	var req importMovieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.TMDBID <= 0 && req.Query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tmdb_id or query required"})
	}

	var m *repository.Movie
	var err error
	if req.TMDBID > 0 {
		m, err = h.Importer.FetchByID(req.TMDBID)
	} else {
		m, err = h.Importer.FetchByQuery(req.Query)
	}
	if err != nil {
		switch {
		case errors.Is(err, tmdb.ErrNotConfigured):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "catalog import is not configured"})
		case errors.Is(err, tmdb.ErrNoResults):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no matching movie"})
		default:
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "import failed"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Movies.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusCreated, m)
}
