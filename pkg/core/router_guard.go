package core

import (
	"net/http"
	"slices"

	manifest "github.com/joeydtaylor/trifle/pkg/manifest"
	"github.com/joeydtaylor/trifle/pkg/middleware/auth"
)

func withGuard(next http.HandlerFunc, a *auth.Middleware, g manifest.Guard) http.HandlerFunc {
	open := !g.RequireAuth && len(g.Users) == 0 && len(g.Roles) == 0
	return func(w http.ResponseWriter, r *http.Request) {
		if open {
			next(w, r)
			return
		}
		// Without auth wired nobody can satisfy a guard.
		if a == nil || !a.IsAuthenticated(r.Context()) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := r.Context()
		if len(g.Users) > 0 && !slices.ContainsFunc(g.Users, func(u string) bool { return a.IsUser(ctx, u) }) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if len(g.Roles) > 0 && !slices.ContainsFunc(g.Roles, func(role string) bool { return a.IsRole(ctx, role) }) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
