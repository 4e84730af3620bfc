package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinevault/movie-catalog/internal/middleware"
	"github.com/cinevault/movie-catalog/internal/repository"
	"github.com/cinevault/movie-catalog/internal/service"
)

type ReviewHandler struct {
	Service *service.ReviewService
}

func NewReviewHandler(s *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{Service: s}
}

type upsertReviewReq struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

// ListForMovie returns a movie's reviews with aggregates; no auth required.
func (h *ReviewHandler) ListForMovie(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Service.ListForMovie(ctx, c.Param("movieId"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, out)
}

// Upsert creates or overwrites the caller's review for a movie.  201 marks
// a first submission, 200 an overwrite; either way the response echoes what
// was stored.
func (h *ReviewHandler) Upsert(c echo.Context) error {
	var req upsertReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Service.Upsert(ctx, middleware.UserID(c), c.Param("movieId"), req.Rating, req.Comment)
	if err != nil {
		switch err {
		case service.ErrInvalidRating:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be 1-10"})
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
		}
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	return c.JSON(status, res)
}
