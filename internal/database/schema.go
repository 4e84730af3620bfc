package database

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cinevault/movie-catalog/internal/utils"
)

// schemaSQL is applied statement by statement on startup.  Every statement
// is idempotent so repeated boots are safe.  Membership tables carry a
// UNIQUE(user_id, movie_id) key; that constraint, not application locking,
// is what keeps list entries and reviews singular per pair.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
  id CHAR(36) PRIMARY KEY,
  email VARCHAR(255) UNIQUE NOT NULL,
  full_name VARCHAR(255) NOT NULL,
  role ENUM('user','admin') DEFAULT 'user',
  password_hash VARCHAR(255) NOT NULL,
  avatar_url TEXT,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS movies (
  id CHAR(36) PRIMARY KEY,
  title VARCHAR(255) NOT NULL,
  description TEXT,
  release_year INT,
  genre VARCHAR(100),
  director VARCHAR(255),
  cast_list TEXT,
  rating DECIMAL(3,1),
  poster_url TEXT,
  trailer_url TEXT,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS user_favorites (
  id CHAR(36) PRIMARY KEY,
  user_id CHAR(36) NOT NULL,
  movie_id CHAR(36) NOT NULL,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  UNIQUE KEY uniq_fav_user_movie (user_id, movie_id),
  FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
  FOREIGN KEY (movie_id) REFERENCES movies(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS user_watchlist (
  id CHAR(36) PRIMARY KEY,
  user_id CHAR(36) NOT NULL,
  movie_id CHAR(36) NOT NULL,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  UNIQUE KEY uniq_watch_user_movie (user_id, movie_id),
  FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
  FOREIGN KEY (movie_id) REFERENCES movies(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS reviews (
  id CHAR(36) PRIMARY KEY,
  user_id CHAR(36) NOT NULL,
  movie_id CHAR(36) NOT NULL,
  rating INT NOT NULL,
  comment TEXT,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  UNIQUE KEY uniq_review_user_movie (user_id, movie_id),
  FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
  FOREIGN KEY (movie_id) REFERENCES movies(id) ON DELETE CASCADE
);
`

// EnsureSchema creates the catalog tables if they do not exist yet and,
// when adminEmail and adminPass are both set, seeds a default admin account.
func EnsureSchema(db *sql.DB, adminEmail, adminPass, adminName string, bcryptCost int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if adminEmail == "" || adminPass == "" {
		return nil
	}
	return seedAdmin(ctx, db, adminEmail, adminPass, adminName, bcryptCost)
}

// seedAdmin inserts the default admin user unless the email is already taken.
func seedAdmin(ctx context.Context, db *sql.DB, email, pass, name string, cost int) error {
	var existing string
	err := db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", email).Scan(&existing)
	if err == nil {
		return nil // already present
	}
	if err != sql.ErrNoRows {
		return err
	}
	hash, err := utils.HashPassword(pass, cost)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO users (id, email, full_name, role, password_hash) VALUES (?,?,?,?,?)",
		uuid.NewString(), email, name, "admin", hash)
	if err != nil {
		return err
	}
	log.Printf("seeded default admin user: %s", email)
	return nil
}
