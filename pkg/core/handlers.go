package core

import (
	"strings"
	"sync"

	"github.com/joeydtaylor/trifle/pkg/controller"
	"github.com/joeydtaylor/trifle/pkg/delegate"
)

var (
	regMu   sync.RWMutex
	actions = map[string]map[string]delegate.Operation{} // controller -> action -> op
	helpers = map[string]controller.Helper{}
)

// RegisterAction gives a controller a native action. Native actions win
// over delegated ones of the same name.
func RegisterAction(controllerName, action string, op delegate.Operation) {
	if op == nil {
		return
	}
	name := strings.ToLower(strings.TrimSpace(controllerName))
	regMu.Lock()
	defer regMu.Unlock()
	m, ok := actions[name]
	if !ok {
		m = map[string]delegate.Operation{}
		actions[name] = m
	}
	m[delegate.NormalizeName(action)] = op
}

// RegisterHelper makes h callable by name from every host's delegates.
func RegisterHelper(name string, h controller.Helper) {
	if h == nil {
		return
	}
	regMu.Lock()
	helpers[name] = h
	regMu.Unlock()
}

func hostOptions(controllerName string) []controller.Option {
	regMu.RLock()
	defer regMu.RUnlock()
	var opts []controller.Option
	for a, op := range actions[controllerName] {
		opts = append(opts, controller.WithAction(a, op))
	}
	for n, h := range helpers {
		opts = append(opts, controller.WithHelper(n, h))
	}
	return opts
}
