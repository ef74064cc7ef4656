package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// userIDKey is the context key under which the authenticated user's ID is stored.
type userIDKey struct{}

// UserID returns the authenticated user's ID from the request context.
// The second return is false when the request carried no valid token.
// Workflows take the actor explicitly — this is the only place identity is
// read from ambient state, at the very edge of the HTTP layer.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	return id, ok
}

// WithUserID returns a context carrying the given user ID.
// Exported for handler tests that bypass the middleware.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// NewAuthenticator returns a middleware that validates an HS256 bearer token
// and stores the subject claim (the user's UUID) in the request context.
//
// Requests without an Authorization header pass through unauthenticated;
// services reject those with domain.ErrNotAuthenticated where sign-in is
// required, so public routes (catalog, leaderboard, guide) keep working.
// A present-but-invalid token is rejected with 401 outright.
func NewAuthenticator(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := parseBearer(header, secret)
			if err != nil {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// parseBearer validates the Authorization header and extracts the subject UUID.
func parseBearer(header, secret string) (uuid.UUID, error) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return uuid.Nil, fmt.Errorf("malformed authorization header")
	}
	raw := strings.TrimSpace(header[len(prefix):])

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return uuid.Nil, err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("subject is not a user ID: %w", err)
	}
	return userID, nil
}
