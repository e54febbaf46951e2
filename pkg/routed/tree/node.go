// Package tree provides a minimal element tree for raising routed events.
//
// A Node has a name, a class from a typeinfo.Registry, a parent and ordered
// children. Nodes implement routed.Target and routed.Parented, so the
// default routed.ParentWalker routes events through them.
//
//	root := tree.New("window", windowType)
//	panel := tree.New("panel", panelType)
//	ok := tree.New("ok", buttonType)
//	_ = root.AppendChild(panel)
//	_ = panel.AppendChild(ok)
//
//	_ = ok.AddHandler(click, handler, false)
//	_ = m.RaiseEvent(ctx, ok, routed.NewRoutedEventArgs(click))
package tree

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/randalmurphal/routed/pkg/routed"
	"github.com/randalmurphal/routed/pkg/routed/typeinfo"
)

// Sentinel errors for tree edits.
var (
	// ErrHasParent indicates the child is already attached elsewhere.
	ErrHasParent = errors.New("node already has a parent")

	// ErrCycle indicates the edit would make a node its own ancestor.
	ErrCycle = errors.New("node cannot be its own ancestor")

	// ErrNotChild indicates the node is not a child of the parent.
	ErrNotChild = errors.New("node is not a child")
)

// Node is an element of the tree.
type Node struct {
	name  string
	class *typeinfo.Type

	mu       sync.RWMutex
	parent   *Node
	children []*Node

	storeOnce sync.Once
	store     *routed.HandlerStore
	newStore  func() *routed.HandlerStore
}

// Option configures a Node.
type Option func(*Node)

// WithHandlerStore makes the node use store for its instance handlers.
func WithHandlerStore(store *routed.HandlerStore) Option {
	return func(n *Node) {
		n.newStore = func() *routed.HandlerStore { return store }
	}
}

// WithManager makes the node's handler store check handler shapes with the
// manager's validator.
func WithManager(m *routed.Manager) Option {
	return func(n *Node) {
		n.newStore = m.NewHandlerStore
	}
}

// New creates a detached node.
func New(name string, class *typeinfo.Type, opts ...Option) *Node {
	n := &Node{
		name:  name,
		class: class,
		newStore: func() *routed.HandlerStore {
			return routed.NewHandlerStore()
		},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// String returns the node name.
func (n *Node) String() string { return n.name }

// Class implements routed.Target.
func (n *Node) Class() *typeinfo.Type { return n.class }

// Handlers implements routed.Target. It returns nil until the first handler
// is added.
func (n *Node) Handlers() *routed.HandlerStore {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.store
}

// RoutingParent implements routed.Parented.
func (n *Node) RoutingParent() routed.Target {
	p := n.Parent()
	if p == nil {
		return nil
	}
	return p
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.parent
}

// Children returns a snapshot of the children.
func (n *Node) Children() []*Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.children)
}

// AppendChild attaches child as the last child of n.
func (n *Node) AppendChild(child *Node) error {
	if child == nil {
		return &routed.ArgumentError{Op: "AppendChild", Arg: "child"}
	}
	for a := n; a != nil; a = a.Parent() {
		if a == child {
			return ErrCycle
		}
	}

	child.mu.Lock()
	if child.parent != nil {
		child.mu.Unlock()
		return ErrHasParent
	}
	child.parent = n
	child.mu.Unlock()

	n.mu.Lock()
	n.children = append(n.children, child)
	n.mu.Unlock()
	return nil
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) error {
	if child == nil {
		return &routed.ArgumentError{Op: "RemoveChild", Arg: "child"}
	}

	n.mu.Lock()
	i := slices.Index(n.children, child)
	if i < 0 {
		n.mu.Unlock()
		return ErrNotChild
	}
	n.children = slices.Delete(n.children, i, i+1)
	n.mu.Unlock()

	child.mu.Lock()
	child.parent = nil
	child.mu.Unlock()
	return nil
}

// Path returns the node names from the root down to n, joined with "/".
func (n *Node) Path() string {
	var names []string
	for a := n; a != nil; a = a.Parent() {
		names = append(names, a.name)
	}
	slices.Reverse(names)
	return strings.Join(names, "/")
}

// Walk calls fn for n and its descendants, depth first, until fn returns
// false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children() {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// AddHandler attaches an instance handler for e.
func (n *Node) AddHandler(e *routed.RoutedEvent, h *routed.Handler, handledEventsToo bool) error {
	return n.ensureStore().AddHandler(e, h, handledEventsToo)
}

// RemoveHandler detaches the first occurrence of h for e.
func (n *Node) RemoveHandler(e *routed.RoutedEvent, h *routed.Handler) error {
	store := n.Handlers()
	if store == nil {
		if e == nil {
			return &routed.ArgumentError{Op: "RemoveHandler", Arg: "event"}
		}
		if h == nil {
			return &routed.ArgumentError{Op: "RemoveHandler", Arg: "handler"}
		}
		return nil
	}
	return store.RemoveHandler(e, h)
}

func (n *Node) ensureStore() *routed.HandlerStore {
	n.storeOnce.Do(func() {
		store := n.newStore()
		n.mu.Lock()
		n.store = store
		n.mu.Unlock()
	})
	return n.Handlers()
}

var (
	_ routed.Target   = (*Node)(nil)
	_ routed.Parented = (*Node)(nil)
)
