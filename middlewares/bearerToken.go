package middlewares

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// ValidateBearerToken checks the Bearer token in the Authorization header.
// An empty expected token disables the check.
func ValidateBearerToken(expectedBearerToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if expectedBearerToken == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				HttpError(w, r, "Authorization header is missing", http.StatusUnauthorized, nil)
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				HttpError(w, r, "Invalid Authorization header format", http.StatusUnauthorized, nil)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if !secureCompare(token, expectedBearerToken) {
				HttpError(w, r, "Invalid Bearer Token", http.StatusUnauthorized, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
