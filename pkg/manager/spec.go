package manager

import (
	"slices"

	"github.com/joeydtaylor/trifle/pkg/delegate"
)

// Spec filters the actions a delegate contributes. Both lists take action
// names with or without the suffix.
type Spec struct {
	Only   []string `toml:"only" yaml:"only"`
	Except []string `toml:"except" yaml:"except"`
}

// Entry pairs a delegate identifier with its Spec. ID is either a
// delegate.Delegate or a name resolved through the loader.
type Entry struct {
	ID   any
	Spec Spec
}

func Named(name string, spec ...Spec) Entry            { return entry(name, spec) }
func Instance(d delegate.Delegate, spec ...Spec) Entry { return entry(d, spec) }

func entry(id any, spec []Spec) Entry {
	e := Entry{ID: id}
	if len(spec) > 0 {
		e.Spec = spec[0]
	}
	return e
}

// allowed returns the normalized, filtered action names of d in declaration order.
func (s Spec) allowed(d delegate.Delegate) []string {
	only := normalizeAll(s.Only)
	except := normalizeAll(s.Except)

	var out []string
	for _, name := range d.ListOperations() {
		a := delegate.NormalizeName(name)
		if len(only) > 0 && !slices.Contains(only, a) {
			continue
		}
		if slices.Contains(except, a) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func normalizeAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, delegate.NormalizeName(n))
	}
	return out
}
