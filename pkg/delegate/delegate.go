// Package delegate defines the contract between a host and the auxiliary
// objects that contribute actions to it.
//
// A delegate declares its operations explicitly through an Operations table.
// Concrete delegates embed Base, call Declare from their constructor, and
// reach host state through the forwarding helpers on Base.
package delegate

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/joeydtaylor/trifle/pkg/view"
)

// ActionSuffix is the conventional suffix on operation names ("indexAction").
const ActionSuffix = "action"

var ErrOperationNotFound = errors.New("operation not found")

// Operation is one named unit of behavior. args are applied positionally.
type Operation func(ctx context.Context, args ...any) (any, error)

// Operations maps declared operation names to their implementations.
type Operations map[string]Operation

// Host is the capability a delegate sees of the object it extends.
type Host interface {
	Name() string
	View() view.View
	Get(key string) (any, bool)
	Set(key string, value any)
	Call(ctx context.Context, name string, args ...any) (any, error)
}

// Delegate is the provider contract consumed by the manager.
type Delegate interface {
	// ListOperations returns the declared operation names, as declared.
	ListOperations() []string
	// Run executes the init hook, the named operation and the view fallback.
	Run(ctx context.Context, name string, args []any) (any, error)
	// Bind sets the host back-reference.
	Bind(h Host)
	// FallbackPaths returns the delegate's own template directories.
	FallbackPaths() []string
}

// Rooted is implemented by delegates that resolve relative fallback paths
// against the directory they were loaded from.
type Rooted interface {
	SetRoot(dir string)
}

// NormalizeName lower-cases an action name and strips trailing
// ActionSuffix occurrences. A bare "action" is kept. It is idempotent.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for strings.HasSuffix(name, ActionSuffix) && len(name) > len(ActionSuffix) {
		name = strings.TrimSuffix(name, ActionSuffix)
	}
	return name
}

// IsNil reports whether d is nil or an interface holding a nil pointer.
func IsNil(d Delegate) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
