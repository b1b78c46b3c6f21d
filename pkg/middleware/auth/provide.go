package auth

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds assertion settings; ProvideAuthentication reads them from env.
type Config struct {
	AdminRole  string
	DevBypass  bool
	CookieName string
	Key        []byte
	Issuer     string
	Audience   string
	Leeway     time.Duration
}

func New(cfg Config) *Middleware {
	if cfg.CookieName == "" {
		cfg.CookieName = "assert"
	}
	return &Middleware{
		adminRole:        cfg.AdminRole,
		devBypass:        cfg.DevBypass,
		assertCookieName: cfg.CookieName,
		assertKey:        cfg.Key,
		assertIssuer:     cfg.Issuer,
		assertAudience:   cfg.Audience,
		assertLeeway:     cfg.Leeway,
	}
}

// ProvideAuthentication wires env config.
func ProvideAuthentication() *Middleware {
	leeway := 60 * time.Second
	if v := strings.TrimSpace(os.Getenv("ASSERTION_LEEWAY_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			leeway = time.Duration(n) * time.Second
		}
	}
	return New(Config{
		AdminRole:  os.Getenv("ADMIN_ROLE_NAME"),
		DevBypass:  os.Getenv("AUTH_DEV_BYPASS") == "true",
		CookieName: strings.TrimSpace(os.Getenv("ASSERTION_COOKIE_NAME")),
		Key:        []byte(os.Getenv("ASSERTION_HMAC_KEY")),
		Issuer:     strings.TrimSpace(os.Getenv("ASSERTION_ISSUER")),
		Audience:   strings.TrimSpace(os.Getenv("ASSERTION_AUDIENCE")),
		Leeway:     leeway,
	})
}
