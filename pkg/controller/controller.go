// Package controller is the host side of delegation: a request-scoped
// object with its own actions, helpers and state that hands any unknown
// action to a lazily built manager.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/joeydtaylor/trifle/pkg/delegate"
	"github.com/joeydtaylor/trifle/pkg/loader"
	"github.com/joeydtaylor/trifle/pkg/manager"
	"github.com/joeydtaylor/trifle/pkg/view"
	"go.uber.org/zap"
)

// ErrUnhandled is returned for names that are neither native actions,
// helpers, nor suffixed action names.
var ErrUnhandled = errors.New("unhandled operation")

// Helper is host behavior delegates may invoke by name.
type Helper func(ctx context.Context, args ...any) (any, error)

type Controller struct {
	id    string
	name  string
	view  view.View
	state map[string]any

	actions map[string]delegate.Operation
	helpers map[string]Helper

	delegates []manager.Entry
	loader    *loader.Loader
	log       *zap.Logger
	mgr       *manager.Manager
}

var _ delegate.Host = (*Controller)(nil)

type Option func(*Controller)

func WithView(v view.View) Option { return func(c *Controller) { c.view = v } }

// WithDelegates declares the delegates the manager is built from.
func WithDelegates(entries ...manager.Entry) Option {
	return func(c *Controller) { c.delegates = append(c.delegates, entries...) }
}

func WithLoader(l *loader.Loader) Option { return func(c *Controller) { c.loader = l } }

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithAction adds a native action; it wins over any delegate of the same name.
func WithAction(name string, op delegate.Operation) Option {
	return func(c *Controller) { c.actions[delegate.NormalizeName(name)] = op }
}

func WithHelper(name string, h Helper) Option {
	return func(c *Controller) { c.helpers[name] = h }
}

func WithState(key string, value any) Option {
	return func(c *Controller) { c.state[key] = value }
}

func New(name string, opts ...Option) *Controller {
	c := &Controller{
		id:      uuid.NewString(),
		name:    strings.ToLower(strings.TrimSpace(name)),
		state:   map[string]any{},
		actions: map[string]delegate.Operation{},
		helpers: map[string]Helper{},
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.view == nil {
		c.view = view.NewRenderer(c.name)
	}
	return c
}

func (c *Controller) ID() string      { return c.id }
func (c *Controller) Name() string    { return c.name }
func (c *Controller) View() view.View { return c.view }

func (c *Controller) Get(key string) (any, bool) {
	v, ok := c.state[key]
	return v, ok
}

func (c *Controller) Set(key string, value any) { c.state[key] = value }

// Call invokes a host helper by name.
func (c *Controller) Call(ctx context.Context, name string, args ...any) (any, error) {
	h, ok := c.helpers[name]
	if !ok {
		return nil, fmt.Errorf("%w: helper %q on %s", ErrUnhandled, name, c.name)
	}
	return h(ctx, args...)
}

// Manager returns the controller's manager, building it on first use.
func (c *Controller) Manager() (*manager.Manager, error) {
	if c.mgr != nil {
		return c.mgr, nil
	}
	m, err := manager.New(c, c.delegates,
		manager.WithLoader(c.loader),
		manager.WithLogger(c.log.With(zap.String("hostId", c.id))),
	)
	if err != nil {
		return nil, fmt.Errorf("controller %s: %w", c.name, err)
	}
	c.mgr = m
	return m, nil
}

// Handles reports whether name is a native action or is owned by a
// delegate. It never builds the manager.
func (c *Controller) Handles(name string) bool {
	key := delegate.NormalizeName(name)
	if _, ok := c.actions[key]; ok {
		return true
	}
	if c.mgr == nil {
		return false
	}
	_, err := c.mgr.DelegateForAction(key)
	return err == nil
}

// Dispatch runs a native action when one exists; otherwise names carrying
// the action suffix are delegated to the manager.
func (c *Controller) Dispatch(ctx context.Context, name string, args ...any) (any, error) {
	if op, ok := c.actions[delegate.NormalizeName(name)]; ok {
		return op(ctx, args...)
	}
	if !strings.HasSuffix(strings.ToLower(name), delegate.ActionSuffix) {
		return nil, fmt.Errorf("%w: %q on %s", ErrUnhandled, name, c.name)
	}
	m, err := c.Manager()
	if err != nil {
		return nil, err
	}
	return m.Run(ctx, name, args)
}
