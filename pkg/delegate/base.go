package delegate

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sort"

	"github.com/joeydtaylor/trifle/pkg/view"
)

// Base implements Delegate for embedding types.
type Base struct {
	host  Host
	root  string
	init  func()
	ops   map[string]Operation
	names []string
	paths []string
}

// NewBase returns a Base with its operation table and optional init hook.
func NewBase(init func(), ops Operations) *Base {
	b := &Base{}
	b.Declare(init, ops)
	return b
}

// Declare installs the init hook and operation table. Names are indexed by
// their normalized form; the declared spelling is kept for ListOperations.
func (b *Base) Declare(init func(), ops Operations) {
	b.init = init
	b.ops = make(map[string]Operation, len(ops))
	b.names = b.names[:0]
	for name, op := range ops {
		if op == nil {
			continue
		}
		b.ops[NormalizeName(name)] = op
		b.names = append(b.names, name)
	}
	sort.Strings(b.names)
}

func (b *Base) ListOperations() []string { return append([]string(nil), b.names...) }

func (b *Base) Bind(h Host)  { b.host = h }
func (b *Base) Host() Host   { return b.host }
func (b *Base) Root() string { return b.root }

func (b *Base) SetRoot(dir string) { b.root = dir }

// Run calls the init hook, the operation registered under name, and then
// the view fallback for that name.
func (b *Base) Run(ctx context.Context, name string, args []any) (any, error) {
	key := NormalizeName(name)
	op, ok := b.ops[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, name)
	}
	if b.host == nil {
		return nil, fmt.Errorf("delegate: no host bound for %q", name)
	}

	if b.init != nil {
		b.init()
	}
	out, err := op(ctx, args...)
	if err != nil {
		return out, err
	}
	if err := b.renderFallback(key); err != nil {
		return out, err
	}
	return out, nil
}

// AddFallbackPath registers a template directory. Relative paths resolve
// against the delegate root. Missing directories are kept.
func (b *Base) AddFallbackPath(path string) *Base {
	if !filepath.IsAbs(path) && b.root != "" {
		path = filepath.Join(b.root, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if !slices.Contains(b.paths, path) {
		b.paths = append(b.paths, path)
	}
	return b
}

func (b *Base) FallbackPaths() []string { return append([]string(nil), b.paths...) }

// Forwarding to the host.

func (b *Base) View() view.View {
	if b.host == nil {
		return nil
	}
	return b.host.View()
}

func (b *Base) Get(key string) (any, bool) {
	if b.host == nil {
		return nil, false
	}
	return b.host.Get(key)
}

func (b *Base) Set(key string, value any) {
	if b.host != nil {
		b.host.Set(key, value)
	}
}

func (b *Base) Call(ctx context.Context, name string, args ...any) (any, error) {
	if b.host == nil {
		return nil, fmt.Errorf("delegate: no host bound for call %q", name)
	}
	return b.host.Call(ctx, name, args...)
}
