package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "unit-test-secret"

func signedToken(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func callWithAuth(t *testing.T, header string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var seen *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	RequireAuth(secret)(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	rec, seen := callWithAuth(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestRequireAuthRejectsBadScheme(t *testing.T) {
	rec, seen := callWithAuth(t, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestRequireAuthRejectsWrongKey(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user-1"}, "some-other-secret")
	rec, seen := callWithAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}, secret)
	rec, seen := callWithAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestRequireAuthRejectsMissingSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"email": "kim@example.com"}, secret)
	rec, seen := callWithAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestRequireAuthInjectsClaims(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub":         "kp_1234",
		"email":       "kim@example.com",
		"given_name":  "Kim",
		"family_name": "Lee",
		"exp":         time.Now().Add(time.Hour).Unix(),
	}, secret)

	rec, seen := callWithAuth(t, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)

	ctx := seen.Context()
	assert.Equal(t, "kp_1234", UserID(ctx))
	assert.Equal(t, "kim@example.com", ctx.Value(UserEmailKey))
	assert.Equal(t, "Kim", ctx.Value(UserGivenNameKey))
	assert.Equal(t, "Lee", ctx.Value(UserFamilyNameKey))
}
