package middleware

import (
	"net/http"
	"strings"

	"github.com/jobtrackr/backend/internal/auth"
	"github.com/jobtrackr/backend/internal/web"
)

// RequireAuth validates the access token from the cookie or the
// Authorization header and injects the verified claims into the request
// context.
func RequireAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if cookie, err := r.Cookie(auth.AccessCookie); err == nil {
				token = cookie.Value
			}
			if token == "" {
				if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
					token = strings.TrimPrefix(h, "Bearer ")
				}
			}
			if token == "" {
				web.Fail(w, http.StatusUnauthorized, "Unauthorized Access")
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				web.Fail(w, http.StatusUnauthorized, "Invalid Token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
		})
	}
}
