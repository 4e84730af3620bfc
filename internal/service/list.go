// Package service holds the list and review logic sitting between the HTTP
// handlers and the catalog store.
package service

import (
	"context"
	"time"

	"github.com/cinevault/movie-catalog/internal/queue"
	"github.com/cinevault/movie-catalog/internal/repository"
)

// ListService maintains set-membership of a user's favorites and watchlist.
// Membership is unique per (user, movie, kind); the store's unique key is
// the enforcement point, the service just translates its signals.
type ListService struct {
	Lists *repository.ListRepo

	// publish pushes an event after a successful mutation.  Failures are
	// ignored: the broker is an observer, never a gate on the request.
	publish func(context.Context, any) error
}

func NewListService(lists *repository.ListRepo) *ListService {
	return &ListService{Lists: lists, publish: queue.Publish}
}

// Add puts a movie on the user's list.  A movie already present surfaces as
// repository.ErrDuplicateEntry (the caller answers 409 and the UI treats it
// as a resync signal); a movie that does not exist surfaces as ErrNotFound.
func (s *ListService) Add(ctx context.Context, kind repository.ListKind, userID, movieID string) (repository.ListEntry, error) {
	entry, err := s.Lists.Add(ctx, kind, userID, movieID)
	if err != nil {
		return repository.ListEntry{}, err
	}
	s.notify(ctx, queue.ListChangedEvent{
		ListKind:   string(kind),
		Action:     "added",
		UserID:     userID,
		MovieID:    movieID,
		EntryID:    entry.ID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	return entry, nil
}

// Remove takes a movie off the user's list.  Removing an absent entry is a
// success; calling Remove twice in a row never fails the second time.
func (s *ListService) Remove(ctx context.Context, kind repository.ListKind, userID, movieID string) error {
	if err := s.Lists.Remove(ctx, kind, userID, movieID); err != nil {
		return err
	}
	s.notify(ctx, queue.ListChangedEvent{
		ListKind:   string(kind),
		Action:     "removed",
		UserID:     userID,
		MovieID:    movieID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// Movies returns the user's list as full movie records, most recently added
// first.  Each call is a fresh query.
func (s *ListService) Movies(ctx context.Context, kind repository.ListKind, userID string) ([]repository.Movie, error) {
	return s.Lists.Movies(ctx, kind, userID)
}

func (s *ListService) notify(ctx context.Context, event any) {
	if s.publish == nil {
		return
	}
	_ = s.publish(ctx, event)
}
