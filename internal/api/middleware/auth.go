package middleware

import (
	"net/http"
	"strings"

	"github.com/berwahousing/records-backend/internal/auth"
	"github.com/berwahousing/records-backend/internal/config"
)

// authExempt lists paths that never require a token.
var authExempt = map[string]bool{
	"/health":       true,
	"/metrics":      true,
	"/api/login":    true,
	"/api/register": true,
}

// Auth returns middleware that resolves the caller identity from a Bearer
// token and stores it in the request context. With auth_mode "required"
// (the default) requests without a valid token are rejected; "disabled"
// exists for tests and local tooling only.
func Auth(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authExempt[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			mode := strings.ToLower(strings.TrimSpace(cfg.AuthMode))
			if mode == "disabled" {
				next.ServeHTTP(w, r)
				return
			}

			token := extractBearer(r)
			if token == "" {
				unauthorized(w, "Authentication required")
				return
			}
			claims, err := auth.ValidateToken(cfg.JWTSecret, token)
			if err != nil {
				msg := "Invalid or expired token"
				if err == auth.ErrExpiredToken {
					msg = "Token expired"
				}
				unauthorized(w, msg)
				return
			}

			if lu, ok := r.Context().Value(logUserKey).(*logUser); ok {
				lu.username = claims.Username
			}
			ctx := auth.WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}

func extractBearer(r *http.Request) string {
	s := r.Header.Get("Authorization")
	if s == "" {
		return ""
	}
	const prefix = "Bearer "
	if len(s) > len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return strings.TrimSpace(s[len(prefix):])
	}
	return ""
}
