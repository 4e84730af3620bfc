package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ListKind names one of the per-user movie lists.
type ListKind string

const (
	ListFavorites ListKind = "favorites"
	ListWatchlist ListKind = "watchlist"
)

// listTables whitelists the table behind each kind.  Table names are never
// taken from request input; anything outside this map is a programming error.
var listTables = map[ListKind]string{
	ListFavorites: "user_favorites",
	ListWatchlist: "user_watchlist",
}

// ListEntry mirrors a row of a membership table.
type ListEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MovieID   string    `json:"movie_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ListRepo maintains the favorites and watchlist membership tables.  Both
// share one shape, so a single repo serves them keyed by ListKind.
type ListRepo struct{ DB *sql.DB }

func NewListRepo(db *sql.DB) *ListRepo { return &ListRepo{DB: db} }

func (r *ListRepo) table(kind ListKind) (string, error) {
	t, ok := listTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown list kind: %q", kind)
	}
	return t, nil
}

// Add inserts a (user, movie) entry.  The UNIQUE(user_id, movie_id) key
// enforces at-most-one membership; a duplicate insert maps to
// ErrDuplicateEntry and a dangling movie reference to ErrNotFound.
func (r *ListRepo) Add(ctx context.Context, kind ListKind, userID, movieID string) (ListEntry, error) {
	table, err := r.table(kind)
	if err != nil {
		return ListEntry{}, err
	}
	e := ListEntry{ID: uuid.NewString(), UserID: userID, MovieID: movieID}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO "+table+" (id, user_id, movie_id) VALUES (?,?,?)",
		e.ID, e.UserID, e.MovieID)
	if err != nil {
		if isDuplicateKey(err) {
			return ListEntry{}, ErrDuplicateEntry
		}
		if isForeignKeyViolation(err) {
			return ListEntry{}, ErrNotFound
		}
		return ListEntry{}, err
	}
	err = r.DB.QueryRowContext(ctx,
		"SELECT created_at FROM "+table+" WHERE id = ?", e.ID).Scan(&e.CreatedAt)
	if err != nil {
		return ListEntry{}, err
	}
	return e, nil
}

// Remove deletes the (user, movie) entry if present.  Removing an absent
// entry succeeds silently; delete-any-match semantics make the operation
// idempotent by construction.
func (r *ListRepo) Remove(ctx context.Context, kind ListKind, userID, movieID string) error {
	table, err := r.table(kind)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE user_id = ? AND movie_id = ?", userID, movieID)
	return err
}

// Movies returns the movies on a user's list ordered by entry creation time
// descending (most recently added first).
func (r *ListRepo) Movies(ctx context.Context, kind ListKind, userID string) ([]Movie, error) {
	table, err := r.table(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT m.id,m.title,m.description,m.release_year,m.genre,m.director,m.cast_list,m.rating,m.poster_url,m.trailer_url,m.created_at,m.updated_at
		 FROM `+table+` e
		 JOIN movies m ON m.id = e.movie_id
		 WHERE e.user_id = ?
		 ORDER BY e.created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// RecentMovies returns up to limit of the user's newest list entries with
// only the fields shown on public profiles.
type ProfileMovie struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	PosterURL *string `json:"poster_url"`
}

func (r *ListRepo) RecentMovies(ctx context.Context, kind ListKind, userID string, limit int) ([]ProfileMovie, error) {
	table, err := r.table(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT m.id, m.title, m.poster_url
		 FROM `+table+` e
		 JOIN movies m ON m.id = e.movie_id
		 WHERE e.user_id = ?
		 ORDER BY e.created_at DESC
		 LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ProfileMovie, 0, limit)
	for rows.Next() {
		var m ProfileMovie
		var poster sql.NullString
		if err := rows.Scan(&m.ID, &m.Title, &poster); err != nil {
			return nil, err
		}
		if poster.Valid {
			m.PosterURL = &poster.String
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
