// Package manifest describes an application: its view settings, the
// delegate path table, the record store and the controllers to mount.
package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joeydtaylor/trifle/pkg/loader"
	"github.com/joeydtaylor/trifle/pkg/store"
)

// Config is the top-level manifest.
type Config struct {
	View          View          `toml:"view" yaml:"view"`
	DelegatePaths []loader.Path `toml:"delegate_path" yaml:"delegate_path"`
	Store         store.Config  `toml:"store" yaml:"store"`
	Controllers   []Controller  `toml:"controller" yaml:"controller"`
}

// View configures the host template lookup.
type View struct {
	ScriptDirs []string `toml:"script_dirs" yaml:"script_dirs"`
	Suffix     string   `toml:"suffix" yaml:"suffix"`
}

// Paths returns the delegate path table in declaration order.
func (c Config) Paths() loader.Paths { return loader.NewPaths(c.DelegatePaths...) }

// Controller looks up a controller by (case-insensitive) name.
func (c Config) Controller(name string) (Controller, bool) {
	for _, ct := range c.Controllers {
		if strings.EqualFold(ct.Name, name) {
			return ct, true
		}
	}
	return Controller{}, false
}

// Validate normalizes the manifest in place and checks it.
func (c *Config) Validate() error {
	if len(c.Controllers) == 0 {
		return errors.New("no controllers defined")
	}
	for i, p := range c.DelegatePaths {
		if strings.TrimSpace(p.Prefix) == "" {
			return fmt.Errorf("delegate_path %d: prefix required", i)
		}
		if strings.TrimSpace(p.Dir) == "" {
			return fmt.Errorf("delegate_path %d (%s): dir required", i, p.Prefix)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Store.Driver)) {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("store.driver %q invalid", c.Store.Driver)
	}

	seen := map[string]int{}
	for i := range c.Controllers {
		if err := c.Controllers[i].normalize(); err != nil {
			return fmt.Errorf("controller %d: %w", i, err)
		}
		if err := c.Controllers[i].validate(); err != nil {
			return fmt.Errorf("controller %d (%s): %w", i, c.Controllers[i].Name, err)
		}
		if j, dup := seen[c.Controllers[i].Name]; dup {
			return fmt.Errorf("controller %d (%s): name already used by controller %d", i, c.Controllers[i].Name, j)
		}
		seen[c.Controllers[i].Name] = i
	}
	return nil
}
