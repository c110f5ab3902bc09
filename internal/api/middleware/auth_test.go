package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func authProbe(adminToken string) (http.Handler, *string, *bool) {
	var seenUser string
	var seenAdmin bool
	handler := BearerAuth(adminToken)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = GetUserID(r.Context())
		seenAdmin = IsAdmin(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	return handler, &seenUser, &seenAdmin
}

func TestBearerAuthExtractsUserID(t *testing.T) {
	handler, seenUser, _ := authProbe("")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bob")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "bob", *seenUser)
}

func TestBearerAuthMissingHeader(t *testing.T) {
	handler, _, _ := authProbe("")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuthWrongScheme(t *testing.T) {
	handler, _, _ := authProbe("")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic Ym9iOnNlY3JldA==")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuthEmptyUser(t *testing.T) {
	handler, _, _ := authProbe("")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer   ")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuthAdminToken(t *testing.T) {
	handler, _, seenAdmin := authProbe("secret-admin")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bob")
	req.Header.Set("X-Admin-Token", "secret-admin")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, *seenAdmin)
}

func TestBearerAuthWrongAdminToken(t *testing.T) {
	handler, _, seenAdmin := authProbe("secret-admin")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bob")
	req.Header.Set("X-Admin-Token", "guessed")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, *seenAdmin)
}
