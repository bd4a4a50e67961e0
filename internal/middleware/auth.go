package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wardrobe/service/internal/response"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

// UserIDKey is the context key for the authenticated subject.
const UserIDKey contextKey = "userID"

// UserEmailKey is the context key for the caller's email claim.
const UserEmailKey contextKey = "userEmail"

// UserGivenNameKey is the context key for the caller's given-name claim.
const UserGivenNameKey contextKey = "userGivenName"

// UserFamilyNameKey is the context key for the caller's family-name claim.
const UserFamilyNameKey contextKey = "userFamilyName"

// UserID returns the authenticated subject, or "" when the request is anonymous.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

// RequireAuth returns middleware that validates a Bearer JWT issued by the
// identity provider and injects the subject's claims into the request context.
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "authorization header required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "invalid authorization header format")
				return
			}

			token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				response.Unauthorized(w, "invalid or expired token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				response.Unauthorized(w, "invalid token claims")
				return
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				response.Unauthorized(w, "token missing subject")
				return
			}

			email, _ := claims["email"].(string)
			givenName, _ := claims["given_name"].(string)
			familyName, _ := claims["family_name"].(string)

			ctx := context.WithValue(r.Context(), UserIDKey, sub)
			ctx = context.WithValue(ctx, UserEmailKey, email)
			ctx = context.WithValue(ctx, UserGivenNameKey, givenName)
			ctx = context.WithValue(ctx, UserFamilyNameKey, familyName)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
