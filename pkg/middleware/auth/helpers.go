package auth

import "context"

// UserFrom returns the user attached to ctx, or the zero User.
func UserFrom(ctx context.Context) User {
	u, _ := ctx.Value(userCtxKey).(User)
	return u
}

func (m *Middleware) GetUser(ctx context.Context) User { return UserFrom(ctx) }

func (m *Middleware) IsAuthenticated(ctx context.Context) bool {
	return UserFrom(ctx).Username != ""
}

func (m *Middleware) IsAdmin(ctx context.Context) bool {
	return m.adminRole != "" && UserFrom(ctx).Role.Name == m.adminRole
}

// IsRole matches the user's role; admins match every role.
func (m *Middleware) IsRole(ctx context.Context, role string) bool {
	u := UserFrom(ctx)
	return u.Username != "" && (u.Role.Name == role || m.IsAdmin(ctx))
}

// IsUser matches the username; admins match every user.
func (m *Middleware) IsUser(ctx context.Context, username string) bool {
	u := UserFrom(ctx)
	return u.Username != "" && (u.Username == username || m.IsAdmin(ctx))
}
