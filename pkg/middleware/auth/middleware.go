package auth

import (
	"context"
	"time"

	"go.uber.org/fx"
)

// Middleware validates HS256 assertions carried in a cookie or a bearer header.
type Middleware struct {
	adminRole string
	devBypass bool

	assertCookieName string
	assertKey        []byte
	assertIssuer     string
	assertAudience   string
	assertLeeway     time.Duration
}

var Module = fx.Options(
	fx.Provide(ProvideAuthentication),
)

// WithUser returns ctx carrying u, as the middleware would.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}
