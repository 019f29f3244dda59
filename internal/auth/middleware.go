package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/sakif/homework-qa/internal/apperror"
	"github.com/sakif/homework-qa/internal/model"
)

// CookieName is the cookie the login handler stores the JWT in.
const CookieName = "token"

// contextKey is unexported so no other package can read or shadow our values.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth rejects requests without a valid token with 401 and stores the
// token's user ID in the context for the rest.
//
// The token is taken from "Authorization: Bearer <jwt>" first, then from the
// HttpOnly cookie, so both API clients and browsers work.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, model.Fail[any](apperror.Unauthorized("valid authentication required")))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// OptionalAuth records the user ID when a valid token is present but never
// blocks the request.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens); err == nil {
				r = r.WithContext(WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUserID returns a copy of ctx carrying userID. Handler tests use it to
// fake an authenticated request without minting a token.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user's ID, or (0, false) for an
// anonymous request.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

func extractUserID(r *http.Request, tokens *TokenService) (int64, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return tokens.Validate(strings.TrimSpace(token))
		}
	}

	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return 0, err
	}
	return tokens.Validate(cookie.Value)
}
