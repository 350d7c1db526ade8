package auth

import (
	"net/http"
	"strings"
)

// Middleware resolves the caller identity from the Authorization header and
// stores it in the request context. A missing, invalid, or expired token
// resolves to no identity; rejection is the policy layer's job, so this
// middleware never fails the request.
func Middleware(codec *TokenCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r.Header.Get("Authorization"))
			if userID := codec.Verify(tokenStr); userID != "" {
				r = r.WithContext(WithIdentity(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. A bare token without the scheme is accepted too, matching clients
// that send the raw credential.
func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(header)
}
