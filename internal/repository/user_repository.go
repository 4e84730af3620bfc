package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cinevault/movie-catalog/internal/utils"
)

// User mirrors the 'users' table.
type User struct {
	ID           string
	Email        string
	FullName     string
	Role         string
	PasswordHash string
	AvatarURL    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a fresh UUID and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password, fullName, role string, cost int) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, full_name, role, password_hash) VALUES (?,?,?,?,?)",
		id, email, fullName, role, hash)
	if err != nil {
		if isDuplicateKey(err) {
			return "", ErrEmailExists
		}
		return "", err
	}
	return id, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id,email,full_name,role,password_hash,avatar_url,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id,email,full_name,role,password_hash,avatar_url,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id))
}

func (r *UserRepo) scanOne(row *sql.Row) (User, error) {
	var u User
	var avatar sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.PasswordHash, &avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	if avatar.Valid {
		u.AvatarURL = &avatar.String
	}
	return u, nil
}

// UpdateProfile applies a partial update: nil fields keep their current
// value (COALESCE semantics on the store side).
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, fullName, avatarURL *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name = COALESCE(?, full_name), avatar_url = COALESCE(?, avatar_url) WHERE id = ?",
		fullName, avatarURL, id)
	return err
}

// UpdatePassword replaces the stored credential hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", hash, id)
	return err
}

// PublicProfile is the subset of a user safe to show to other users.
type PublicProfile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	AvatarURL *string   `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetPublicProfile fetches the public fields of a user.  Returns
// ErrNotFound when the user does not exist.
func (r *UserRepo) GetPublicProfile(ctx context.Context, id string) (PublicProfile, error) {
	var p PublicProfile
	var avatar sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,full_name,avatar_url,created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.FullName, &avatar, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return PublicProfile{}, ErrNotFound
	}
	if err != nil {
		return PublicProfile{}, err
	}
	if avatar.Valid {
		p.AvatarURL = &avatar.String
	}
	return p, nil
}
