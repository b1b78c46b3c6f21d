// Package store holds the records served by the Crud delegate.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("record not found")

// Record is one entry in a collection.
type Record struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// Store is safe for concurrent use; one instance serves every request.
type Store interface {
	List(ctx context.Context, collection string) ([]Record, error)
	Get(ctx context.Context, collection, id string) (Record, error)
	Put(ctx context.Context, collection string, rec Record) error
	Delete(ctx context.Context, collection, id string) error
	Close() error
}

// Config selects a backend. Driver is "memory" (default) or "sqlite".
type Config struct {
	Driver string `toml:"driver" yaml:"driver"`
	DSN    string `toml:"dsn" yaml:"dsn"`
}

func Open(cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		return OpenSQLite(cfg.DSN)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

func validKey(collection, id string) error {
	if strings.TrimSpace(collection) == "" {
		return errors.New("store: collection required")
	}
	if strings.TrimSpace(id) == "" {
		return errors.New("store: id required")
	}
	return nil
}
