// Package builtin ships the stock delegates: Crud and Map.
package builtin

import (
	"fmt"

	"github.com/joeydtaylor/trifle/pkg/delegate"
	"github.com/joeydtaylor/trifle/pkg/loader"
)

// Prefix is the loader prefix the stock delegates register under.
const Prefix = "trifle/delegate"

// Register adds the stock delegates to c.
func Register(c *loader.Catalog) error {
	if err := c.Register(Prefix, "Crud", func() delegate.Delegate { return NewCrud() }); err != nil {
		return err
	}
	return c.Register(Prefix, "Map", func() delegate.Delegate { return NewMap() })
}

func argString(args []any, i int) string {
	if i >= len(args) || args[i] == nil {
		return ""
	}
	switch v := args[i].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
