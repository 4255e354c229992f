package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobtrackr/backend/internal/auth"
	"github.com/jobtrackr/backend/internal/middleware"
)

func gated(tokens *auth.TokenManager, claims **auth.Claims) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*claims = auth.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return middleware.RequireAuth(tokens)(next)
}

func TestRequireAuth_Cookie(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret")
	token, err := tokens.Issue("a@x.com", "id-1", auth.AccessTTL)
	require.NoError(t, err)

	var got *auth.Claims
	req := httptest.NewRequest("GET", "/api/v1/jobs", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessCookie, Value: token})
	rec := httptest.NewRecorder()
	gated(tokens, &got).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, "id-1", got.ID)
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret")
	token, err := tokens.Issue("a@x.com", "id-1", auth.AccessTTL)
	require.NoError(t, err)

	var got *auth.Claims
	req := httptest.NewRequest("GET", "/api/v1/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	gated(tokens, &got).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "id-1", got.ID)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret")

	var got *auth.Claims
	rec := httptest.NewRecorder()
	gated(tokens, &got).ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/jobs", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthorized Access")
	assert.Nil(t, got)
}

func TestRequireAuth_BadToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret")
	forged, err := auth.NewTokenManager("other-secret").Issue("a@x.com", "id-1", auth.AccessTTL)
	require.NoError(t, err)

	var got *auth.Claims
	req := httptest.NewRequest("GET", "/api/v1/jobs", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessCookie, Value: forged})
	rec := httptest.NewRecorder()
	gated(tokens, &got).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid Token")
	assert.Nil(t, got)
}
