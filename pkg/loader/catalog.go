package loader

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/joeydtaylor/trifle/pkg/delegate"
)

// Factory builds a fresh delegate instance.
type Factory func() delegate.Delegate

// Catalog maps "prefix/name" to delegate factories. Delegates are compiled
// in, so the catalog stands in for locating a type on disk.
type Catalog struct {
	mu  sync.RWMutex
	reg map[string]Factory
}

func NewCatalog() *Catalog { return &Catalog{reg: map[string]Factory{}} }

// Default is the process-wide catalog used when none is supplied.
var Default = NewCatalog()

// Register binds a factory under prefix and name. Names are case-insensitive.
func (c *Catalog) Register(prefix, name string, f Factory) error {
	if strings.TrimSpace(name) == "" || f == nil {
		return fmt.Errorf("loader: name and factory required")
	}
	key := catalogKey(prefix, name)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.reg[key]; dup {
		return fmt.Errorf("loader: %q already registered", key)
	}
	c.reg[key] = f
	return nil
}

func (c *Catalog) MustRegister(prefix, name string, f Factory) {
	if err := c.Register(prefix, name, f); err != nil {
		panic(err)
	}
}

func (c *Catalog) Lookup(prefix, name string) (Factory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.reg[catalogKey(prefix, name)]
	return f, ok
}

// Names returns every registered key, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.reg))
	for k := range c.reg {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Register adds a factory to the Default catalog.
func Register(prefix, name string, f Factory) error { return Default.Register(prefix, name, f) }

func catalogKey(prefix, name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if p := normalizePrefix(prefix); p != "" {
		return p + "/" + name
	}
	return name
}
