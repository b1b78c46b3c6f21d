package auth

import (
	"net/http"
	"strings"
)

// Middleware attaches the authenticated user, if any, to the request
// context. Invalid or missing assertions leave the request anonymous;
// guards decide whether that is acceptable.
func (m *Middleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev bypass for local testing (NEVER enable in prod)
			if m.devBypass {
				if u := devUserFromHeaders(r); u.Username != "" {
					next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
					return
				}
			}

			if raw := m.assertionFrom(r); raw != "" {
				if u, err := m.validateAssertion(raw); err == nil {
					next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) assertionFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(m.assertCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}
