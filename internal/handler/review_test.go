package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinevault/movie-catalog/internal/middleware"
	"github.com/cinevault/movie-catalog/internal/repository"
	"github.com/cinevault/movie-catalog/internal/service"
)

func errorf1062() error {
	return errors.New("Error 1062: Duplicate entry for key 'uq_user_movie'")
}

func newReviewHandler(t *testing.T) (*ReviewHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewReviewHandler(service.NewReviewService(repository.NewReviewRepo(db))), mock, func() { db.Close() }
}

func reviewContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/reviews/movie/m1", body)
	c := e.NewContext(req, rec)
	c.SetParamNames("movieId")
	c.SetParamValues("m1")
	c.Set(middleware.CtxUserID, "u1")
	return c, rec
}

func TestReviewHandler_Upsert_InvalidRating(t *testing.T) {
	h, mock, cleanup := newReviewHandler(t)
	defer cleanup()

	for _, body := range []string{`{"rating":0}`, `{"rating":11}`, `{}`} {
		c, rec := reviewContext(body)
		require.NoError(t, h.Upsert(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
	// an invalid rating never reaches the store
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewHandler_Upsert_CreatedVsUpdated(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		status   int
	}{
		{"first review", 1, http.StatusCreated},
		{"overwrite", 2, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock, cleanup := newReviewHandler(t)
			defer cleanup()

			mock.ExpectExec("INSERT INTO reviews").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectQuery("SELECT id FROM reviews").
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r1"))

			c, rec := reviewContext(`{"rating":8,"comment":"great"}`)
			require.NoError(t, h.Upsert(c))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestReviewHandler_Upsert_UnknownMovie(t *testing.T) {
	h, mock, cleanup := newReviewHandler(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO reviews").
		WillReturnError(errors.New("Error 1452: Cannot add or update a child row: a foreign key constraint fails"))

	c, rec := reviewContext(`{"rating":8}`)
	require.NoError(t, h.Upsert(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
