package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinevault/movie-catalog/internal/queue"
	"github.com/cinevault/movie-catalog/internal/repository"
)

func newListService(t *testing.T) (*ListService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	svc := NewListService(repository.NewListRepo(db))
	svc.publish = nil
	return svc, mock, func() { db.Close() }
}

func TestListService_Add_PublishesOnSuccess(t *testing.T) {
	svc, mock, cleanup := newListService(t)
	defer cleanup()

	var published []any
	svc.publish = func(_ context.Context, e any) error {
		published = append(published, e)
		return nil
	}

	mock.ExpectExec("INSERT INTO user_favorites").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT created_at FROM user_favorites").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))

	entry, err := svc.Add(context.Background(), repository.ListFavorites, "u1", "m1")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)

	require.Len(t, published, 1)
	ev, ok := published[0].(queue.ListChangedEvent)
	require.True(t, ok)
	assert.Equal(t, "favorites", ev.ListKind)
	assert.Equal(t, "added", ev.Action)
	assert.Equal(t, entry.ID, ev.EntryID)
}

func TestListService_Add_DuplicateDoesNotPublish(t *testing.T) {
	svc, mock, cleanup := newListService(t)
	defer cleanup()

	called := false
	svc.publish = func(context.Context, any) error {
		called = true
		return nil
	}

	mock.ExpectExec("INSERT INTO user_watchlist").
		WillReturnError(errors.New("Error 1062: Duplicate entry 'u1-m1' for key 'uq_user_movie'"))

	_, err := svc.Add(context.Background(), repository.ListWatchlist, "u1", "m1")
	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)
	assert.False(t, called)
}

func TestListService_Remove_Idempotent(t *testing.T) {
	svc, mock, cleanup := newListService(t)
	defer cleanup()

	var actions []string
	svc.publish = func(_ context.Context, e any) error {
		actions = append(actions, e.(queue.ListChangedEvent).Action)
		return nil
	}

	mock.ExpectExec("DELETE FROM user_favorites").
		WithArgs("u1", "m1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM user_favorites").
		WithArgs("u1", "m1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, svc.Remove(context.Background(), repository.ListFavorites, "u1", "m1"))
	require.NoError(t, svc.Remove(context.Background(), repository.ListFavorites, "u1", "m1"))
	assert.Equal(t, []string{"removed", "removed"}, actions)
}

func TestListService_NilPublisherIsSafe(t *testing.T) {
	svc, mock, cleanup := newListService(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM user_watchlist").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, svc.Remove(context.Background(), repository.ListWatchlist, "u1", "m1"))
}
