package routed

import (
	"github.com/randalmurphal/routed/pkg/routed/typeinfo"
)

// testNode is a minimal Target for in-package tests.
type testNode struct {
	name   string
	class  *typeinfo.Type
	parent *testNode
	store  *HandlerStore
}

func newTestNode(name string, class *typeinfo.Type, parent *testNode) *testNode {
	return &testNode{name: name, class: class, parent: parent, store: NewHandlerStore()}
}

func (n *testNode) Class() *typeinfo.Type { return n.class }
func (n *testNode) Handlers() *HandlerStore { return n.store }
func (n *testNode) String() string { return n.name }
func (n *testNode) RoutingParent() Target {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func nopHandler() *Handler {
	return NewHandler(func(Target, *RoutedEventArgs) error { return nil })
}

// recorder builds handlers that append a label to a shared log.
type recorder struct {
	log []string
}

func (r *recorder) handler(label string) *Handler {
	return NewHandler(func(Target, *RoutedEventArgs) error {
		r.log = append(r.log, label)
		return nil
	})
}
