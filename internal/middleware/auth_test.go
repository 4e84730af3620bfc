package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinevault/movie-catalog/internal/utils"
)

const testSecret = "test-secret"

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"user_id": UserID(c)})
}

func perform(t *testing.T, mw echo.MiddlewareFunc, authHeader string, seed func(echo.Context)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if seed != nil {
		seed(c)
	}
	require.NoError(t, mw(okHandler)(c))
	return rec
}

func TestJWTAuth(t *testing.T) {
	tok, err := utils.NewUserToken(testSecret, "u1", "ada@example.com", "user", 7)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid token", "Bearer " + tok.Token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := perform(t, JWTAuth(testSecret), tt.header, nil)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestJWTAuth_SetsIdentity(t *testing.T) {
	tok, err := utils.NewUserToken(testSecret, "u1", "ada@example.com", "admin", 7)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID, gotEmail, gotRole string
	next := func(c echo.Context) error {
		gotID = UserID(c)
		gotEmail, _ = c.Get(CtxEmail).(string)
		gotRole, _ = c.Get(CtxRole).(string)
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, JWTAuth(testSecret)(next)(c))
	assert.Equal(t, "u1", gotID)
	assert.Equal(t, "ada@example.com", gotEmail)
	assert.Equal(t, "admin", gotRole)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		role   any
		status int
	}{
		{"admin passes", "admin", http.StatusOK},
		{"plain user forbidden", "user", http.StatusForbidden},
		{"missing role forbidden", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := perform(t, RequireRole("admin"), "", func(c echo.Context) {
				if tt.role != nil {
					c.Set(CtxRole, tt.role)
				}
			})
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
