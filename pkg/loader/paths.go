package loader

import "strings"

// Path binds a delegate name prefix to the directory its delegates live in.
type Path struct {
	Prefix string `toml:"prefix" yaml:"prefix"`
	Dir    string `toml:"dir" yaml:"dir"`
}

// Paths is an ordered prefix table. Later entries are searched first.
type Paths struct {
	entries []Path
}

// NewPaths builds a table from entries in declaration order.
func NewPaths(entries ...Path) Paths {
	var p Paths
	for _, e := range entries {
		p.Set(e.Prefix, e.Dir)
	}
	return p
}

// Set adds or replaces the directory for prefix. The last writer for a
// prefix wins and keeps the prefix's original position.
func (p *Paths) Set(prefix, dir string) {
	prefix = normalizePrefix(prefix)
	for i := range p.entries {
		if p.entries[i].Prefix == prefix {
			p.entries[i].Dir = dir
			return
		}
	}
	p.entries = append(p.entries, Path{Prefix: prefix, Dir: dir})
}

// Entries returns the table in declaration order.
func (p Paths) Entries() []Path { return append([]Path(nil), p.entries...) }

func (p Paths) Len() int { return len(p.entries) }

func normalizePrefix(prefix string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(prefix)), "/")
}
