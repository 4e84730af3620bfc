package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// UserToken represents a signed JWT bound to a user identity along with its
// expiry.  Tokens are stateless: there is no server-side session store and no
// revocation, they simply expire after the configured TTL.
type UserToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// UserClaims is the identity carried by a verified token.  It is what
// protected handlers see; the password hash never leaves the store layer.
type UserClaims struct {
	UserID string
	Email  string
	Role   string
}

// ErrInvalidToken is returned by ParseUserToken for any token that is
// malformed, expired, tampered with or signed with a different secret.
var ErrInvalidToken = errors.New("invalid token")

// NewUserToken builds and signs an HS256 JWT for a user.  The signing secret
// is an explicit parameter supplied from configuration at wiring time.  The
// claims bind the user id (sub), email and role; exp and iat are standard.
func NewUserToken(secret, userID, email, role string, ttlDays int) (UserToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return UserToken{}, err
	}
	return UserToken{Token: signed, Exp: exp}, nil
}

// ParseUserToken verifies a raw bearer token against the secret and returns
// the identity claims.  Only HMAC-signed tokens are accepted; anything else
// maps to ErrInvalidToken so callers can answer 401 without leaking detail.
func ParseUserToken(secret, raw string) (UserClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return UserClaims{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return UserClaims{}, ErrInvalidToken
	}
	uc := UserClaims{}
	if v, ok := claims["sub"].(string); ok {
		uc.UserID = v
	}
	if v, ok := claims["email"].(string); ok {
		uc.Email = v
	}
	if v, ok := claims["role"].(string); ok {
		uc.Role = v
	}
	if uc.UserID == "" {
		return UserClaims{}, ErrInvalidToken
	}
	return uc, nil
}
