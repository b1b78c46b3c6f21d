// Package loader resolves symbolic delegate names to instances by searching
// a prefix table against a catalog of compiled-in factories.
package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joeydtaylor/trifle/pkg/delegate"
)

var (
	ErrDelegateNotFound = errors.New("delegate not found")
	ErrNilDelegate      = errors.New("factory returned a nil delegate")
)

// Loader searches Paths, most recently declared prefix first.
type Loader struct {
	paths   Paths
	catalog *Catalog
}

type Option func(*Loader)

func WithCatalog(c *Catalog) Option {
	return func(l *Loader) {
		if c != nil {
			l.catalog = c
		}
	}
}

func New(paths Paths, opts ...Option) *Loader {
	l := &Loader{paths: paths, catalog: Default}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Resolved is a successful lookup.
type Resolved struct {
	Prefix  string
	Dir     string
	Factory Factory
}

// Resolve finds the factory for name without instantiating it.
func (l *Loader) Resolve(name string) (Resolved, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Resolved{}, fmt.Errorf("%w: empty name", ErrDelegateNotFound)
	}
	entries := l.paths.Entries()
	tried := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if f, ok := l.catalog.Lookup(e.Prefix, name); ok {
			return Resolved{Prefix: e.Prefix, Dir: e.Dir, Factory: f}, nil
		}
		tried = append(tried, e.Prefix)
	}
	return Resolved{}, fmt.Errorf("%w: %q (prefixes tried: %s)", ErrDelegateNotFound, name, strings.Join(tried, ", "))
}

// Load resolves name and returns a new instance. Delegates implementing
// delegate.Rooted are told the directory of the matching prefix.
func (l *Loader) Load(name string) (delegate.Delegate, error) {
	r, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	d := r.Factory()
	if delegate.IsNil(d) {
		return nil, fmt.Errorf("%w: %q under %s", ErrNilDelegate, name, r.Prefix)
	}
	if rd, ok := d.(delegate.Rooted); ok && r.Dir != "" {
		rd.SetRoot(r.Dir)
	}
	return d, nil
}

func (l *Loader) Paths() Paths { return l.paths }
