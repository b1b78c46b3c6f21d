package builtin

import (
	"context"

	"github.com/joeydtaylor/trifle/pkg/delegate"
)

// Map contributes the "map" action and renders views/scripts/map/map.tmpl
// from its root unless the host overrides it.
type Map struct {
	delegate.Base
}

func NewMap() *Map {
	m := &Map{}
	m.Declare(m.init, delegate.Operations{
		"mapAction": m.mapAction,
	})
	return m
}

func (m *Map) init() {
	m.AddFallbackPath("views/scripts/map")
}

func (m *Map) mapAction(_ context.Context, _ ...any) (any, error) {
	if v := m.View(); v != nil {
		v.Assign("message", "index page")
	}
	return nil, nil
}
