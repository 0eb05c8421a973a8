package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/memorizabiblia/memoriza-api/pkg/response"
	"github.com/memorizabiblia/memoriza-api/pkg/util"
)

type contextKey string

const (
	userContextKey    contextKey = "user"
	accountContextKey contextKey = "account_id"
)

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, http.StatusUnauthorized, "Missing Authorization header", "user not logged in")
			return
		}

		// Must start with "Bearer "
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Error(w, http.StatusUnauthorized, "Invalid token format", "")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := util.ValidateJWT(tokenStr)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid or expired token", "")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		ctx = context.WithValue(ctx, accountContextKey, claims.AccountID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthMiddleware extracts the account when a bearer token is present
// but lets anonymous requests through. A token that is present but invalid is
// still rejected.
func OptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Error(w, http.StatusUnauthorized, "Invalid token format", "")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := util.ValidateJWT(tokenStr)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid or expired token", "")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		ctx = context.WithValue(ctx, accountContextKey, claims.AccountID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetUserFromContext(r *http.Request) (*util.Claims, bool) {
	claims, ok := r.Context().Value(userContextKey).(*util.Claims)
	return claims, ok
}

func GetAccountIDFromContext(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(accountContextKey).(string)
	return id, ok
}
