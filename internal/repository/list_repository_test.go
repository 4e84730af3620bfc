package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupListRepo(t *testing.T) (*ListRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewListRepo(db), mock, func() { db.Close() }
}

func TestListRepo_Add(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name      string
		kind      ListKind
		setupMock func(sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "success on favorites",
			kind: ListFavorites,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO user_favorites").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery("SELECT created_at FROM user_favorites").
					WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
			},
		},
		{
			name: "duplicate pair maps to ErrDuplicateEntry",
			kind: ListWatchlist,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO user_watchlist").
					WillReturnError(errors.New("Error 1062: Duplicate entry 'u1-m1' for key 'uniq_watch_user_movie'"))
			},
			wantErr: ErrDuplicateEntry,
		},
		{
			name: "missing movie maps to ErrNotFound",
			kind: ListFavorites,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO user_favorites").
					WillReturnError(errors.New("Error 1452: Cannot add or update a child row: a foreign key constraint fails"))
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupListRepo(t)
			defer cleanup()
			tt.setupMock(mock)

			entry, err := repo.Add(context.Background(), tt.kind, "u1", "m1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, entry.ID)
				assert.Equal(t, "u1", entry.UserID)
				assert.Equal(t, "m1", entry.MovieID)
				assert.Equal(t, now, entry.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListRepo_Remove_IsIdempotent(t *testing.T) {
	repo, mock, cleanup := setupListRepo(t)
	defer cleanup()

	// Two removals in a row: the second matches zero rows and still succeeds.
	mock.ExpectExec("DELETE FROM user_favorites").
		WithArgs("u1", "m1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM user_favorites").
		WithArgs("u1", "m1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Remove(context.Background(), ListFavorites, "u1", "m1"))
	require.NoError(t, repo.Remove(context.Background(), ListFavorites, "u1", "m1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRepo_Movies_OrderedNewestFirst(t *testing.T) {
	repo, mock, cleanup := setupListRepo(t)
	defer cleanup()

	cols := []string{"id", "title", "description", "release_year", "genre", "director", "cast_list", "rating", "poster_url", "trailer_url", "created_at", "updated_at"}
	now := time.Now().UTC()
	rows := sqlmock.NewRows(cols).
		AddRow("m2", "Newest", nil, nil, nil, nil, nil, nil, nil, nil, now, now).
		AddRow("m1", "Older", nil, nil, nil, nil, nil, nil, nil, nil, now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery("ORDER BY e.created_at DESC").
		WithArgs("u1").
		WillReturnRows(rows)

	movies, err := repo.Movies(context.Background(), ListWatchlist, "u1")
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "Newest", movies[0].Title)
	assert.Equal(t, "Older", movies[1].Title)
	assert.Nil(t, movies[0].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRepo_UnknownKind(t *testing.T) {
	repo, _, cleanup := setupListRepo(t)
	defer cleanup()

	_, err := repo.Add(context.Background(), ListKind("bookmarks"), "u1", "m1")
	assert.Error(t, err)
}
