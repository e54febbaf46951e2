package routed

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/randalmurphal/routed/pkg/routed/journal"
	"github.com/randalmurphal/routed/pkg/routed/observability"
	"github.com/randalmurphal/routed/pkg/routed/typeinfo"
)

// Manager owns the routed event state of one process or test: the global
// index counter, the event identities, the class handler registry and the
// route pool. All methods are safe for concurrent use.
type Manager struct {
	types          *typeinfo.Registry
	walker         TreeWalker
	validator      SignatureValidator
	maxRouteLength int

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	journal journal.Recorder

	ids     identities
	classes classRegistry
	pool    *routePool
}

// identities is the event identity registry. One counter issues indices to
// routed events and private keys alike.
type identities struct {
	mu      sync.Mutex
	count   int
	events  []*RoutedEvent
	byOwner map[*typeinfo.Type][]*RoutedEvent
}

// NewManager creates a Manager.
func NewManager(opts ...Option) *Manager {
	cfg := defaultManagerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.types == nil {
		cfg.types = typeinfo.NewRegistry()
	}

	return &Manager{
		types:          cfg.types,
		walker:         cfg.walker,
		validator:      cfg.validator,
		maxRouteLength: cfg.maxRouteLength,
		logger:         cfg.logger,
		metrics:        cfg.metrics,
		spans:          cfg.spans,
		journal:        cfg.journal,
		ids:            identities{byOwner: make(map[*typeinfo.Type][]*RoutedEvent)},
		pool:           newRoutePool(cfg.poolCapacity),
	}
}

// Types returns the type registry class handlers are resolved against.
func (m *Manager) Types() *typeinfo.Registry { return m.types }

// SignatureValidator returns the handler shape check in use.
func (m *Manager) SignatureValidator() SignatureValidator { return m.validator }

// NewHandlerStore creates a store that checks handler shapes with the
// Manager's validator.
func (m *Manager) NewHandlerStore() *HandlerStore {
	return NewHandlerStore(WithStoreValidator(m.validator))
}

// Close closes the journal, if any.
func (m *Manager) Close() error {
	if m.journal == nil {
		return nil
	}
	return m.journal.Close()
}

// RegisterRoutedEvent creates a new event identity. The name must be unique
// among the events owned by owner. Nothing is registered when an error is
// returned.
func (m *Manager) RegisterRoutedEvent(name string, strategy RoutingStrategy, handlerType HandlerType, owner *typeinfo.Type) (*RoutedEvent, error) {
	events, err := m.register("RegisterRoutedEvent", []EventDefinition{{
		Name:        name,
		Strategy:    strategy,
		HandlerType: handlerType,
		Owner:       owner,
	}})
	if err != nil {
		return nil, err
	}
	return events[0], nil
}

// EventDefinition describes one event for RegisterRoutedEvents.
type EventDefinition struct {
	Name        string
	Strategy    RoutingStrategy
	HandlerType HandlerType
	Owner       *typeinfo.Type
}

// RegisterRoutedEvents registers every definition or none of them. Events
// get consecutive indices in definition order. A name repeated for the same
// owner within defs is a duplicate registration.
func (m *Manager) RegisterRoutedEvents(defs ...EventDefinition) ([]*RoutedEvent, error) {
	return m.register("RegisterRoutedEvents", defs)
}

func (m *Manager) register(op string, defs []EventDefinition) ([]*RoutedEvent, error) {
	for _, d := range defs {
		if err := m.checkDefinition(op, d); err != nil {
			return nil, err
		}
	}

	m.ids.mu.Lock()
	type key struct {
		owner *typeinfo.Type
		name  string
	}
	seen := make(map[key]bool, len(defs))
	for _, d := range defs {
		k := key{d.Owner, d.Name}
		if seen[k] || slices.ContainsFunc(m.ids.byOwner[d.Owner], func(e *RoutedEvent) bool { return e.name == d.Name }) {
			m.ids.mu.Unlock()
			return nil, &DuplicateRegistrationError{Name: d.Name, Owner: d.Owner.Name()}
		}
		seen[k] = true
	}

	events := make([]*RoutedEvent, len(defs))
	for i, d := range defs {
		e := &RoutedEvent{
			name:        d.Name,
			strategy:    d.Strategy,
			handlerType: d.HandlerType,
			owner:       d.Owner,
			index:       m.ids.count,
			manager:     m,
		}
		m.ids.count++
		m.ids.events = append(m.ids.events, e)
		m.ids.byOwner[d.Owner] = append(m.ids.byOwner[d.Owner], e)
		events[i] = e
	}
	m.ids.mu.Unlock()

	for _, e := range events {
		observability.LogEventRegistered(m.logger, e.name, e.owner.Name(), e.strategy.String(), e.index)
	}
	return events, nil
}

func (m *Manager) checkDefinition(op string, d EventDefinition) error {
	if d.Name == "" {
		return nilArg(op, "name")
	}
	if !d.Strategy.Valid() {
		return &EnumValueError{Enum: "RoutingStrategy", Value: int64(d.Strategy)}
	}
	if d.HandlerType.IsZero() {
		return nilArg(op, "handlerType")
	}
	if d.Owner == nil {
		return nilArg(op, "owner")
	}
	if !m.types.Owns(d.Owner) {
		return ErrForeignObject
	}
	return nil
}

// MustRegisterRoutedEvent is like RegisterRoutedEvent but panics on error.
// Intended for package-level event declarations.
func (m *Manager) MustRegisterRoutedEvent(name string, strategy RoutingStrategy, handlerType HandlerType, owner *typeinfo.Type) *RoutedEvent {
	e, err := m.RegisterRoutedEvent(name, strategy, handlerType, owner)
	if err != nil {
		panic(err)
	}
	return e
}

// AddOwner makes e reachable by name from owner, as when a type re-exposes
// an event declared elsewhere. The identity and index do not change.
// Adding an existing owner again is a no-op.
func (m *Manager) AddOwner(e *RoutedEvent, owner *typeinfo.Type) (*RoutedEvent, error) {
	if e == nil {
		return nil, nilArg("AddOwner", "event")
	}
	if owner == nil {
		return nil, nilArg("AddOwner", "owner")
	}
	if e.manager != m || !m.types.Owns(owner) {
		return nil, ErrForeignObject
	}

	m.ids.mu.Lock()
	defer m.ids.mu.Unlock()
	for _, existing := range m.ids.byOwner[owner] {
		if existing == e {
			return e, nil
		}
		if existing.name == e.name {
			return nil, &DuplicateRegistrationError{Name: e.name, Owner: owner.Name()}
		}
	}
	m.ids.byOwner[owner] = append(m.ids.byOwner[owner], e)
	return e, nil
}

// NewEventPrivateKey issues a key for handlers of a non-routed event.
func (m *Manager) NewEventPrivateKey() *EventPrivateKey {
	m.ids.mu.Lock()
	defer m.ids.mu.Unlock()
	k := &EventPrivateKey{index: m.ids.count, manager: m}
	m.ids.count++
	return k
}

// EventCount returns how many global indices have been issued, counting
// routed events and private keys.
func (m *Manager) EventCount() int {
	m.ids.mu.Lock()
	defer m.ids.mu.Unlock()
	return m.ids.count
}

// RoutedEvents returns every registered routed event in index order.
func (m *Manager) RoutedEvents() []*RoutedEvent {
	m.ids.mu.Lock()
	defer m.ids.mu.Unlock()
	return slices.Clone(m.ids.events)
}

// EventsForOwner returns the events declared by or added to owner.
// Base types are not searched.
func (m *Manager) EventsForOwner(owner *typeinfo.Type) []*RoutedEvent {
	m.ids.mu.Lock()
	defer m.ids.mu.Unlock()
	return slices.Clone(m.ids.byOwner[owner])
}

// EventFromName finds an event by name on owner or its base types.
func (m *Manager) EventFromName(name string, owner *typeinfo.Type) (*RoutedEvent, bool) {
	m.ids.mu.Lock()
	defer m.ids.mu.Unlock()
	for t := owner; t != nil; t = t.Base() {
		for _, e := range m.ids.byOwner[t] {
			if e.name == name {
				return e, true
			}
		}
	}
	return nil, false
}

// RegisterClassHandler adds a handler that runs for every instance of
// class and its subtypes, before their instance handlers. Handlers of a
// type run before those of its base types.
func (m *Manager) RegisterClassHandler(class *typeinfo.Type, e *RoutedEvent, h *Handler, handledEventsToo bool) error {
	const op = "RegisterClassHandler"
	if class == nil {
		return nilArg(op, "class")
	}
	if err := checkHandler(op, m.validator, e, h); err != nil {
		return err
	}
	if e.manager != m || !m.types.Owns(class) {
		return ErrForeignObject
	}

	relinked := m.classes.register(class, e, HandlerInfo{handler: h, handledEventsToo: handledEventsToo})
	observability.LogClassHandlerRegistered(m.logger, class.Name(), e.String(), handledEventsToo, relinked)
	return nil
}

// ClassHandlers returns the class handlers that run for class when e is
// raised on one of its instances, in invocation order.
func (m *Manager) ClassHandlers(class *typeinfo.Type, e *RoutedEvent) []HandlerInfo {
	if class == nil || e == nil || !m.types.Owns(class) {
		return nil
	}
	return m.classes.flatten(class, e)
}

// PoolStats returns route pool counters.
func (m *Manager) PoolStats() PoolStats {
	return m.pool.snapshot()
}
