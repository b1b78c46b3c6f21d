// Package manager maps action names to the delegates that implement them
// and dispatches calls on behalf of a host.
package manager

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/joeydtaylor/trifle/pkg/delegate"
	"github.com/joeydtaylor/trifle/pkg/loader"
	"go.uber.org/zap"
)

var (
	ErrInvalidDelegateSpec = errors.New("invalid delegate spec")
	ErrDuplicateAction     = errors.New("duplicate action")
	ErrActionNotFound      = errors.New("action not found")
)

// Manager owns the delegates registered for one host. The action index is
// written only while delegates are added and read-only once dispatch starts.
type Manager struct {
	host      delegate.Host
	loader    *loader.Loader
	log       *zap.Logger
	delegates []delegate.Delegate
	actions   map[string]delegate.Delegate
}

type Option func(*Manager)

func WithLoader(l *loader.Loader) Option {
	return func(m *Manager) {
		if l != nil {
			m.loader = l
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// New builds a manager for host and registers entries in order. Without
// WithLoader, names resolve against an empty path table.
func New(host delegate.Host, entries []Entry, opts ...Option) (*Manager, error) {
	if host == nil {
		return nil, fmt.Errorf("manager: host required")
	}
	m := &Manager{
		host:    host,
		log:     zap.NewNop(),
		actions: map[string]delegate.Delegate{},
	}
	for _, o := range opts {
		o(m)
	}
	if m.loader == nil {
		m.loader = loader.New(loader.Paths{})
	}
	for _, e := range entries {
		if err := m.AddDelegate(e.ID, e.Spec); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Manager) Host() delegate.Host    { return m.host }
func (m *Manager) Loader() *loader.Loader { return m.loader }

// Delegates returns registered delegates in registration order.
func (m *Manager) Delegates() []delegate.Delegate {
	return append([]delegate.Delegate(nil), m.delegates...)
}

// AddDelegate loads id, filters its actions through spec and indexes them.
// A name already owned by another delegate fails with ErrDuplicateAction
// and leaves the index and the delegate's host binding unchanged.
func (m *Manager) AddDelegate(id any, spec Spec) error {
	d, err := m.loadDelegate(id)
	if err != nil {
		return err
	}

	names := spec.allowed(d)
	seen := make(map[string]struct{}, len(names))
	for _, a := range names {
		if _, taken := m.actions[a]; taken {
			return fmt.Errorf("%w: action %q is already registered", ErrDuplicateAction, a)
		}
		if _, twice := seen[a]; twice {
			return fmt.Errorf("%w: action %q is declared twice by %s", ErrDuplicateAction, a, describe(id))
		}
		seen[a] = struct{}{}
	}
	d.Bind(m.host)
	for _, a := range names {
		m.actions[a] = d
	}
	m.delegates = append(m.delegates, d)

	m.log.Debug("delegate registered",
		zap.String("host", m.host.Name()),
		zap.String("delegate", describe(id)),
		zap.Strings("actions", names),
	)
	return nil
}

// loadDelegate resolves id without binding it; AddDelegate binds once the
// delegate's actions are accepted.
func (m *Manager) loadDelegate(id any) (delegate.Delegate, error) {
	switch v := id.(type) {
	case delegate.Delegate:
		if delegate.IsNil(v) {
			return nil, fmt.Errorf("%w: delegate %T is nil", ErrInvalidDelegateSpec, id)
		}
		return v, nil
	case string:
		d, err := m.loader.Load(v)
		if errors.Is(err, loader.ErrNilDelegate) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDelegateSpec, err)
		}
		return d, err
	default:
		return nil, fmt.Errorf("%w: delegate %v (%T) is not understood", ErrInvalidDelegateSpec, id, id)
	}
}

// DelegateForAction returns the owner of name after normalization.
func (m *Manager) DelegateForAction(name string) (delegate.Delegate, error) {
	a := delegate.NormalizeName(name)
	d, ok := m.actions[a]
	if !ok {
		return nil, fmt.Errorf("%w: action %q was not found", ErrActionNotFound, a)
	}
	return d, nil
}

// Run normalizes name and forwards to the owning delegate.
func (m *Manager) Run(ctx context.Context, name string, args []any) (any, error) {
	a := delegate.NormalizeName(name)
	d, err := m.DelegateForAction(a)
	if err != nil {
		return nil, err
	}
	out, err := d.Run(ctx, a, args)
	if err != nil {
		m.log.Warn("delegated action failed",
			zap.String("host", m.host.Name()),
			zap.String("action", a),
			zap.Error(err),
		)
	}
	return out, err
}

// Actions returns the indexed action names, sorted.
func (m *Manager) Actions() []string {
	out := make([]string, 0, len(m.actions))
	for a := range m.actions {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func describe(id any) string {
	if s, ok := id.(string); ok {
		return s
	}
	return fmt.Sprintf("%T", id)
}
