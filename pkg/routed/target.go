package routed

import (
	"fmt"

	"github.com/randalmurphal/routed/pkg/routed/typeinfo"
)

// Target is a node that events can be raised on and routed through.
// Targets are compared with ==, so implementations should be pointers.
type Target interface {
	// Class returns the node's type for class handler lookup.
	Class() *typeinfo.Type

	// Handlers returns the node's instance handler store, or nil when the
	// node has none.
	Handlers() *HandlerStore
}

// TreeWalker supplies the routing parent of a node.
type TreeWalker interface {
	// RoutingParent returns the next node toward the root, or nil.
	RoutingParent(t Target) Target
}

// TreeWalkerFunc adapts a function to TreeWalker.
type TreeWalkerFunc func(t Target) Target

// RoutingParent implements TreeWalker.
func (f TreeWalkerFunc) RoutingParent(t Target) Target { return f(t) }

// Parented is implemented by targets that know their routing parent.
type Parented interface {
	RoutingParent() Target
}

// ParentWalker is the default TreeWalker. It asks targets that implement
// Parented and treats every other target as a root.
var ParentWalker TreeWalker = TreeWalkerFunc(func(t Target) Target {
	if p, ok := t.(Parented); ok {
		return p.RoutingParent()
	}
	return nil
})

// AncestorPath returns source followed by each routing parent up to the
// root. It fails with ErrTreeLoop once the path exceeds maxLength nodes.
func AncestorPath(w TreeWalker, source Target, maxLength int) ([]Target, error) {
	if w == nil {
		return nil, nilArg("AncestorPath", "walker")
	}
	if source == nil {
		return nil, nilArg("AncestorPath", "source")
	}
	var path []Target
	for t := source; t != nil; t = w.RoutingParent(t) {
		if len(path) == maxLength {
			return nil, fmt.Errorf("%w (%d)", ErrTreeLoop, maxLength)
		}
		path = append(path, t)
	}
	return path, nil
}

func targetName(t Target) string {
	if t == nil {
		return "<nil>"
	}
	if s, ok := t.(fmt.Stringer); ok {
		return s.String()
	}
	if c := t.Class(); c != nil {
		return c.Name()
	}
	return fmt.Sprintf("%T", t)
}
