package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Movie mirrors the 'movies' table.  Nullable columns map to pointers so
// absent values serialize as JSON null rather than zero values.  The
// catalog rating is supplied by admins or the import source and is distinct
// from the user review aggregate.
type Movie struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	ReleaseYear *int      `json:"release_year"`
	Genre       *string   `json:"genre"`
	Director    *string   `json:"director"`
	Cast        *string   `json:"cast"`
	Rating      *float64  `json:"rating"`
	PosterURL   *string   `json:"poster_url"`
	TrailerURL  *string   `json:"trailer_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

const movieColumns = "id,title,description,release_year,genre,director,cast_list,rating,poster_url,trailer_url,created_at,updated_at"

// Create inserts a movie with a fresh UUID, populates the generated ID on
// the record and reads the row back so timestamps reflect store defaults.
func (r *MovieRepo) Create(ctx context.Context, m *Movie) error {
	m.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO movies (id, title, description, release_year, genre, director, cast_list, rating, poster_url, trailer_url)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		m.ID, m.Title, m.Description, m.ReleaseYear, m.Genre, m.Director, m.Cast, m.Rating, m.PosterURL, m.TrailerURL)
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = got
	return nil
}

// GetByID fetches a movie by id.  Returns ErrNotFound when absent.
func (r *MovieRepo) GetByID(ctx context.Context, id string) (Movie, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE id=? LIMIT 1", id)
	m, err := scanMovie(row)
	if err == sql.ErrNoRows {
		return Movie{}, ErrNotFound
	}
	return m, err
}

// Search returns movies ordered newest-first.  When q is non-empty it is
// matched as a substring against title, description, genre and director.
func (r *MovieRepo) Search(ctx context.Context, q string) ([]Movie, error) {
	var rows *sql.Rows
	var err error
	if q != "" {
		like := "%" + q + "%"
		rows, err = r.DB.QueryContext(ctx,
			`SELECT `+movieColumns+` FROM movies
			 WHERE title LIKE ? OR description LIKE ? OR genre LIKE ? OR director LIKE ?
			 ORDER BY created_at DESC`,
			like, like, like, like)
	} else {
		rows, err = r.DB.QueryContext(ctx,
			"SELECT "+movieColumns+" FROM movies ORDER BY created_at DESC")
	}
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

// Update applies a partial update: nil fields keep their current value.
// Returns ErrNotFound when the movie does not exist.
func (r *MovieRepo) Update(ctx context.Context, id string, m *Movie) (Movie, error) {
	var title *string
	if m.Title != "" {
		title = &m.Title
	}
	_, err := r.DB.ExecContext(ctx,
		`UPDATE movies SET
		   title = COALESCE(?, title),
		   description = COALESCE(?, description),
		   release_year = COALESCE(?, release_year),
		   genre = COALESCE(?, genre),
		   director = COALESCE(?, director),
		   cast_list = COALESCE(?, cast_list),
		   rating = COALESCE(?, rating),
		   poster_url = COALESCE(?, poster_url),
		   trailer_url = COALESCE(?, trailer_url)
		 WHERE id = ?`,
		title, m.Description, m.ReleaseYear, m.Genre, m.Director, m.Cast, m.Rating, m.PosterURL, m.TrailerURL, id)
	if err != nil {
		return Movie{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a movie.  The store cascades the delete to list entries
// and reviews.  Deleting a missing movie is not an error.
func (r *MovieRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	return err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...any) error }

func scanMovie(s scanner) (Movie, error) {
	var m Movie
	var desc, genre, director, cast, poster, trailer sql.NullString
	var year sql.NullInt64
	var rating sql.NullFloat64
	err := s.Scan(&m.ID, &m.Title, &desc, &year, &genre, &director, &cast, &rating, &poster, &trailer, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return Movie{}, err
	}
	if desc.Valid {
		m.Description = &desc.String
	}
	if year.Valid {
		y := int(year.Int64)
		m.ReleaseYear = &y
	}
	if genre.Valid {
		m.Genre = &genre.String
	}
	if director.Valid {
		m.Director = &director.String
	}
	if cast.Valid {
		m.Cast = &cast.String
	}
	if rating.Valid {
		m.Rating = &rating.Float64
	}
	if poster.Valid {
		m.PosterURL = &poster.String
	}
	if trailer.Valid {
		m.TrailerURL = &trailer.String
	}
	return m, nil
}
