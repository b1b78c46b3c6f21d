// Package view is the rendering context a host shares with its delegates.
//
// A View resolves action names to template files under an ordered list of
// search directories. Hosts use the controller/action naming convention;
// delegates temporarily switch to flat naming through WithFallback.
package view

import "errors"

// ErrScriptNotFound is returned by RenderExplicit when no search path holds the script.
var ErrScriptNotFound = errors.New("view: script not found")

// View is the narrow rendering contract the delegation layer depends on.
type View interface {
	// ScriptPathFor returns the relative script path for an action under the
	// current naming mode, or "" when none can be formed.
	ScriptPathFor(action string) string
	// ResolveAbsolute returns the absolute path of a relative script found in
	// the current search paths, or "" when it does not exist.
	ResolveAbsolute(path string) string
	// SetFlatNaming switches between "{controller}/{action}{suffix}" and
	// "{action}{suffix}" and returns the previous mode.
	SetFlatNaming(flat bool) bool
	// SetSearchPaths replaces the search paths and returns the previous list.
	SetSearchPaths(paths []string) []string
	// RenderExplicit renders the relative script path, bypassing naming rules.
	RenderExplicit(path string) error
	// Assign sets a template variable.
	Assign(key string, value any)
}

// WithFallback runs fn with v in flat naming mode searching only paths.
// The previous naming mode and search paths are restored on every exit,
// including when fn returns an error or panics.
func WithFallback(v View, paths []string, fn func() error) error {
	prevFlat := v.SetFlatNaming(true)
	prevPaths := v.SetSearchPaths(paths)
	defer func() {
		v.SetFlatNaming(prevFlat)
		v.SetSearchPaths(prevPaths)
	}()
	return fn()
}
