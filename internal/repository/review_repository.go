package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ReviewRepo persists user reviews.  UNIQUE(user_id, movie_id) keeps each
// user to a single review per movie; Upsert leans on that constraint instead
// of a read-then-write sequence, so two concurrent submissions from the same
// user converge on one row with the last writer's rating.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// MovieReview is one review joined with its reviewer for display.
type MovieReview struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    string    `json:"userId"`
	FullName  string    `json:"fullName"`
	AvatarURL *string   `json:"avatarUrl"`
}

// Upsert inserts the user's review for a movie or, when one already exists,
// updates it in place keeping the original row id.  It returns the review id
// and whether a new row was created.  A reference to a missing movie maps to
// ErrNotFound via the foreign key.
func (r *ReviewRepo) Upsert(ctx context.Context, userID, movieID string, rating int, comment *string) (string, bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO reviews (id, user_id, movie_id, rating, comment) VALUES (?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE rating = VALUES(rating), comment = VALUES(comment), updated_at = CURRENT_TIMESTAMP`,
		uuid.NewString(), userID, movieID, rating, comment)
	if err != nil {
		if isForeignKeyViolation(err) {
			return "", false, ErrNotFound
		}
		return "", false, err
	}
	// MySQL reports 1 affected row for a plain insert and 2 (or 0 when
	// nothing changed) for the update branch.
	affected, err := res.RowsAffected()
	if err != nil {
		return "", false, err
	}
	created := affected == 1
	// The row id is stable across updates, so read it back by the unique key.
	var id string
	err = r.DB.QueryRowContext(ctx,
		"SELECT id FROM reviews WHERE user_id = ? AND movie_id = ? LIMIT 1",
		userID, movieID).Scan(&id)
	if err != nil {
		return "", false, err
	}
	return id, created, nil
}

// ListByMovie returns all reviews for a movie newest first, each joined with
// the reviewer's display name and avatar.  The avatar column is nullable and
// scans through sql.NullString; an absent avatar is JSON null, never an error.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID string) ([]MovieReview, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.rating, r.comment, r.created_at, u.id, u.full_name, u.avatar_url
		 FROM reviews r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.movie_id = ?
		 ORDER BY r.created_at DESC`,
		movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MovieReview, 0)
	for rows.Next() {
		var rv MovieReview
		var comment, avatar sql.NullString
		if err := rows.Scan(&rv.ID, &rv.Rating, &comment, &rv.CreatedAt, &rv.UserID, &rv.FullName, &avatar); err != nil {
			return nil, err
		}
		if comment.Valid {
			rv.Comment = &comment.String
		}
		if avatar.Valid {
			rv.AvatarURL = &avatar.String
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// Aggregates returns the review count and the raw (unrounded) mean rating
// for a movie.  With zero reviews the mean is nil, distinguishing "no
// reviews" from an average of zero.
func (r *ReviewRepo) Aggregates(ctx context.Context, movieID string) (int, *float64, error) {
	var count int
	var avg sql.NullFloat64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), AVG(rating) FROM reviews WHERE movie_id = ?",
		movieID).Scan(&count, &avg)
	if err != nil {
		return 0, nil, err
	}
	if !avg.Valid {
		return count, nil, nil
	}
	return count, &avg.Float64, nil
}
