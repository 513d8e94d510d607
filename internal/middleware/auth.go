package middleware

import (
	"net/http"
	"strings"

	"aviablog/internal/auth"
	"aviablog/internal/db/repositories"
)

// AuthMiddleware validates the bearer token and resolves it to a stored
// user, which becomes the request's current user. Requests without a valid
// token are rejected.
func AuthMiddleware(secret string, userRepo *repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			user, err := userRepo.GetByUsername(r.Context(), claims.Username)
			if err != nil {
				http.Error(w, "Unauthorized. Unknown user", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetCurrentUser(r.Context(), auth.CurrentUser{
				UserID:   user.ID,
				Username: user.Username,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
