package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SiEncan/ArenaKu/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func issueToken(t *testing.T, role string) string {
	t.Helper()
	token, err := NewToken(testSecret, &db.User{ID: "user-1", Email: "budi@example.com", Role: role})
	require.NoError(t, err)
	return token
}

func claimsEcho(t *testing.T, captured **Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := FromContext(r.Context())
		require.True(t, ok)
		*captured = claims
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireUserAcceptsValidToken(t *testing.T) {
	var claims *Claims
	handler := RequireUser(testSecret, claimsEcho(t, &claims))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, db.RoleCustomer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, claims)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, db.RoleCustomer, claims.Role)
}

func TestRequireUserRejectsMissingOrBadToken(t *testing.T) {
	handler := RequireUser(testSecret, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUserRejectsTokenSignedWithOtherSecret(t *testing.T) {
	token, err := NewToken("another-secret", &db.User{ID: "user-1", Role: db.RoleCustomer})
	require.NoError(t, err)

	handler := RequireUser(testSecret, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireOwnerRejectsCustomer(t *testing.T) {
	handler := RequireOwner(testSecret, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, db.RoleCustomer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireOwnerAcceptsOwner(t *testing.T) {
	called := false
	handler := RequireOwner(testSecret, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, db.RoleOwner))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
}
