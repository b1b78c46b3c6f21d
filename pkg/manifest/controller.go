package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joeydtaylor/trifle/pkg/codec"
	"github.com/joeydtaylor/trifle/pkg/manager"
)

// Controller declares one host and the delegates it borrows actions from.
type Controller struct {
	Name      string        `toml:"name" yaml:"name"`
	Codec     string        `toml:"codec" yaml:"codec"`
	TimeoutMS int           `toml:"timeout_ms" yaml:"timeout_ms"`
	Guard     Guard         `toml:"guard" yaml:"guard"`
	Delegates []DelegateRef `toml:"delegate" yaml:"delegate"`
}

type Guard struct {
	Roles       []string `toml:"roles" yaml:"roles"`
	Users       []string `toml:"users" yaml:"users"`
	RequireAuth bool     `toml:"require_auth" yaml:"require_auth"`
}

// DelegateRef names a delegate for the loader, with optional filters.
type DelegateRef struct {
	Name   string   `toml:"name" yaml:"name"`
	Only   []string `toml:"only" yaml:"only"`
	Except []string `toml:"except" yaml:"except"`
}

// Entries converts the declared delegates to manager entries, in order.
func (c Controller) Entries() []manager.Entry {
	out := make([]manager.Entry, 0, len(c.Delegates))
	for _, d := range c.Delegates {
		out = append(out, manager.Named(d.Name, manager.Spec{Only: d.Only, Except: d.Except}))
	}
	return out
}

func (c *Controller) normalize() error {
	c.Name = strings.ToLower(strings.TrimSpace(c.Name))
	if c.Name == "" {
		return errors.New("name is required")
	}
	c.Codec = strings.ToLower(strings.TrimSpace(c.Codec))
	for i := range c.Delegates {
		c.Delegates[i].Name = strings.TrimSpace(c.Delegates[i].Name)
	}
	return nil
}

func (c *Controller) validate() error {
	if strings.ContainsAny(c.Name, "/ ") {
		return fmt.Errorf("name %q must be a single path segment", c.Name)
	}
	if _, ok := codec.ByName(c.Codec); !ok {
		return fmt.Errorf("codec %q unknown", c.Codec)
	}
	if c.TimeoutMS < 0 {
		return errors.New("timeout_ms must be >= 0")
	}
	for i, d := range c.Delegates {
		if d.Name == "" {
			return fmt.Errorf("delegate %d: name required", i)
		}
	}
	return nil
}
