package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var movieTestColumns = []string{
	"id", "title", "description", "release_year", "genre", "director",
	"cast_list", "rating", "poster_url", "trailer_url", "created_at", "updated_at",
}

func addMovieRow(rows *sqlmock.Rows, id, title string) *sqlmock.Rows {
	now := time.Now().UTC()
	return rows.AddRow(id, title, nil, nil, nil, nil, nil, nil, nil, nil, now, now)
}

func setupMovieRepo(t *testing.T) (*MovieRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewMovieRepo(db), mock, func() { db.Close() }
}

func TestMovieRepo_GetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := setupMovieRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM movies WHERE id").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(movieTestColumns))

	_, err := repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMovieRepo_Search(t *testing.T) {
	t.Run("empty query lists everything newest first", func(t *testing.T) {
		repo, mock, cleanup := setupMovieRepo(t)
		defer cleanup()

		rows := sqlmock.NewRows(movieTestColumns)
		addMovieRow(rows, "m2", "Newer")
		addMovieRow(rows, "m1", "Older")
		mock.ExpectQuery("SELECT (.+) FROM movies ORDER BY created_at DESC").
			WillReturnRows(rows)

		got, err := repo.Search(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Newer", got[0].Title)
	})

	t.Run("query matches across text fields", func(t *testing.T) {
		repo, mock, cleanup := setupMovieRepo(t)
		defer cleanup()

		rows := sqlmock.NewRows(movieTestColumns)
		addMovieRow(rows, "m1", "Heat")
		mock.ExpectQuery("WHERE title LIKE (.+) OR description LIKE (.+) OR genre LIKE (.+) OR director LIKE").
			WithArgs("%heat%", "%heat%", "%heat%", "%heat%").
			WillReturnRows(rows)

		got, err := repo.Search(context.Background(), "heat")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Heat", got[0].Title)
	})

	t.Run("no matches yields empty slice", func(t *testing.T) {
		repo, mock, cleanup := setupMovieRepo(t)
		defer cleanup()

		mock.ExpectQuery("WHERE title LIKE").
			WillReturnRows(sqlmock.NewRows(movieTestColumns))

		got, err := repo.Search(context.Background(), "nothing")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestMovieRepo_Create_ReadsRowBack(t *testing.T) {
	repo, mock, cleanup := setupMovieRepo(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO movies").
		WillReturnResult(sqlmock.NewResult(0, 1))
	rows := sqlmock.NewRows(movieTestColumns)
	now := time.Now().UTC()
	rows.AddRow("m1", "Heat", "desc", 1995, nil, nil, nil, 7.9, nil, nil, now, now)
	mock.ExpectQuery("SELECT (.+) FROM movies WHERE id").
		WillReturnRows(rows)

	m := Movie{Title: "Heat"}
	require.NoError(t, repo.Create(context.Background(), &m))
	assert.Equal(t, "m1", m.ID)
	require.NotNil(t, m.ReleaseYear)
	assert.Equal(t, 1995, *m.ReleaseYear)
	require.NotNil(t, m.Rating)
	assert.Equal(t, 7.9, *m.Rating)
}

func TestMovieRepo_Update_MissingMovie(t *testing.T) {
	repo, mock, cleanup := setupMovieRepo(t)
	defer cleanup()

	mock.ExpectExec("UPDATE movies SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM movies WHERE id").
		WillReturnRows(sqlmock.NewRows(movieTestColumns))

	_, err := repo.Update(context.Background(), "ghost", &Movie{Title: "Heat"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMovieRepo_Delete_MissingIsNotAnError(t *testing.T) {
	repo, mock, cleanup := setupMovieRepo(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM movies").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "ghost"))
}
