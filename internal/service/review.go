package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/cinevault/movie-catalog/internal/queue"
	"github.com/cinevault/movie-catalog/internal/repository"
)

// ErrInvalidRating rejects a rating outside [1,10] before any store access.
var ErrInvalidRating = errors.New("rating must be between 1 and 10")

// ReviewService implements the one-review-per-user-per-movie upsert and the
// aggregate computation shown on movie pages.
type ReviewService struct {
	Reviews *repository.ReviewRepo

	publish func(context.Context, any) error
}

func NewReviewService(reviews *repository.ReviewRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, publish: queue.Publish}
}

// ReviewResult echoes the submitted review back to the caller.  Created
// distinguishes a first submission from an overwrite so the handler can pick
// 201 vs 200.
type ReviewResult struct {
	ID      string  `json:"id"`
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
	Created bool    `json:"-"`
}

// Upsert stores the user's review for a movie.  A resubmission overwrites
// the existing review in place under the same identifier; concurrent
// submissions converge through the store's insert-or-update primitive
// rather than racing a read against a write.
func (s *ReviewService) Upsert(ctx context.Context, userID, movieID string, rating int, comment *string) (ReviewResult, error) {
	if rating < 1 || rating > 10 {
		return ReviewResult{}, ErrInvalidRating
	}
	id, created, err := s.Reviews.Upsert(ctx, userID, movieID, rating, comment)
	if err != nil {
		return ReviewResult{}, err
	}
	if s.publish != nil {
		_ = s.publish(ctx, queue.ReviewSubmittedEvent{
			ReviewID:   id,
			UserID:     userID,
			MovieID:    movieID,
			Rating:     rating,
			Created:    created,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return ReviewResult{ID: id, Rating: rating, Comment: comment, Created: created}, nil
}

// Aggregates summarizes a movie's reviews.  AvgRating is the arithmetic
// mean rounded to one decimal place, and nil (JSON null) when there are no
// reviews at all.
type Aggregates struct {
	Count     int      `json:"count"`
	AvgRating *float64 `json:"avgRating"`
}

// MovieReviews bundles a movie's reviews with their aggregates.
type MovieReviews struct {
	Reviews    []repository.MovieReview `json:"reviews"`
	Aggregates Aggregates               `json:"aggregates"`
}

// ListForMovie returns a movie's reviews newest first together with the
// review count and rounded average.
func (s *ReviewService) ListForMovie(ctx context.Context, movieID string) (MovieReviews, error) {
	reviews, err := s.Reviews.ListByMovie(ctx, movieID)
	if err != nil {
		return MovieReviews{}, err
	}
	count, avg, err := s.Reviews.Aggregates(ctx, movieID)
	if err != nil {
		return MovieReviews{}, err
	}
	out := MovieReviews{Reviews: reviews, Aggregates: Aggregates{Count: count}}
	if avg != nil {
		rounded := math.Round(*avg*10) / 10
		out.Aggregates.AvgRating = &rounded
	}
	return out, nil
}
