package routed

import (
	"github.com/randalmurphal/routed/pkg/routed/typeinfo"
)

// RoutingStrategy selects how a raise travels through the tree.
type RoutingStrategy int

const (
	// Tunnel visits the root first and ends at the source.
	Tunnel RoutingStrategy = iota
	// Bubble visits the source first and ends at the root.
	Bubble
	// Direct visits only the source.
	Direct
)

// String returns the strategy name.
func (s RoutingStrategy) String() string {
	switch s {
	case Tunnel:
		return "Tunnel"
	case Bubble:
		return "Bubble"
	case Direct:
		return "Direct"
	default:
		return "RoutingStrategy(invalid)"
	}
}

// Valid reports whether s is a declared strategy.
func (s RoutingStrategy) Valid() bool {
	return s >= Tunnel && s <= Direct
}

// Key is anything that addresses a handler list in a HandlerStore.
// Routed events and private keys draw their indices from the same counter,
// so they never collide.
type Key interface {
	GlobalIndex() int
}

// RoutedEvent is the immutable identity of a routed event.
// Create it with Manager.RegisterRoutedEvent.
type RoutedEvent struct {
	name        string
	strategy    RoutingStrategy
	handlerType HandlerType
	owner       *typeinfo.Type
	index       int
	manager     *Manager
}

// Name returns the event name.
func (e *RoutedEvent) Name() string { return e.name }

// RoutingStrategy returns the strategy declared at registration.
func (e *RoutedEvent) RoutingStrategy() RoutingStrategy { return e.strategy }

// HandlerType returns the handler shape the event requires.
func (e *RoutedEvent) HandlerType() HandlerType { return e.handlerType }

// OwnerType returns the declaring type. Types added with AddOwner are not
// reported here.
func (e *RoutedEvent) OwnerType() *typeinfo.Type { return e.owner }

// GlobalIndex returns the process-stable index of the event.
func (e *RoutedEvent) GlobalIndex() int { return e.index }

// String returns "Owner.Name".
func (e *RoutedEvent) String() string {
	if e == nil {
		return "<nil>"
	}
	return e.owner.Name() + "." + e.name
}

// EventPrivateKey addresses handlers of an event that does not route
// through the tree. Create it with Manager.NewEventPrivateKey.
type EventPrivateKey struct {
	index   int
	manager *Manager
}

// GlobalIndex returns the key's index.
func (k *EventPrivateKey) GlobalIndex() int { return k.index }

var (
	_ Key = (*RoutedEvent)(nil)
	_ Key = (*EventPrivateKey)(nil)
)
