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

func setupReviewRepo(t *testing.T) (*ReviewRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewReviewRepo(db), mock, func() { db.Close() }
}

func TestReviewRepo_Upsert(t *testing.T) {
	comment := "great"

	tests := []struct {
		name        string
		affected    int64
		wantCreated bool
	}{
		{name: "first submission inserts", affected: 1, wantCreated: true},
		{name: "resubmission updates in place", affected: 2, wantCreated: false},
		{name: "identical resubmission is an update", affected: 0, wantCreated: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupReviewRepo(t)
			defer cleanup()

			mock.ExpectExec("ON DUPLICATE KEY UPDATE").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectQuery("SELECT id FROM reviews").
				WithArgs("u1", "m1").
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("rev-1"))

			id, created, err := repo.Upsert(context.Background(), "u1", "m1", 8, &comment)
			require.NoError(t, err)
			assert.Equal(t, "rev-1", id)
			assert.Equal(t, tt.wantCreated, created)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReviewRepo_Upsert_MissingMovie(t *testing.T) {
	repo, mock, cleanup := setupReviewRepo(t)
	defer cleanup()

	mock.ExpectExec("ON DUPLICATE KEY UPDATE").
		WillReturnError(errors.New("Error 1452: Cannot add or update a child row: a foreign key constraint fails"))

	_, _, err := repo.Upsert(context.Background(), "u1", "gone", 5, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepo_ListByMovie(t *testing.T) {
	repo, mock, cleanup := setupReviewRepo(t)
	defer cleanup()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "rating", "comment", "created_at", "id", "full_name", "avatar_url"}).
		AddRow("r2", 9, "loved it", now, "u2", "Bea", "https://cdn/avatars/bea.png").
		AddRow("r1", 6, nil, now.Add(-time.Hour), "u1", "Ada", nil)

	mock.ExpectQuery("FROM reviews r").
		WithArgs("m1").
		WillReturnRows(rows)

	reviews, err := repo.ListByMovie(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	assert.Equal(t, "Bea", reviews[0].FullName)
	require.NotNil(t, reviews[0].AvatarURL)
	assert.Equal(t, "https://cdn/avatars/bea.png", *reviews[0].AvatarURL)

	// Missing avatar degrades to null, never an error.
	assert.Nil(t, reviews[1].AvatarURL)
	assert.Nil(t, reviews[1].Comment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepo_Aggregates(t *testing.T) {
	t.Run("with reviews", func(t *testing.T) {
		repo, mock, cleanup := setupReviewRepo(t)
		defer cleanup()

		mock.ExpectQuery("FROM reviews WHERE movie_id").
			WithArgs("m1").
			WillReturnRows(sqlmock.NewRows([]string{"count", "avg"}).AddRow(3, 7.6667))

		count, avg, err := repo.Aggregates(context.Background(), "m1")
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		require.NotNil(t, avg)
		assert.InDelta(t, 7.6667, *avg, 1e-9)
	})

	t.Run("no reviews gives nil average", func(t *testing.T) {
		repo, mock, cleanup := setupReviewRepo(t)
		defer cleanup()

		mock.ExpectQuery("FROM reviews WHERE movie_id").
			WithArgs("m1").
			WillReturnRows(sqlmock.NewRows([]string{"count", "avg"}).AddRow(0, nil))

		count, avg, err := repo.Aggregates(context.Background(), "m1")
		require.NoError(t, err)
		assert.Equal(t, 0, count)
		assert.Nil(t, avg)
	})
}
