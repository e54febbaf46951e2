package routed

import (
	"slices"
	"sort"
	"sync"
)

// HandlerStore holds the instance handlers of one node, keyed by routed
// event or private key. Entries stay sorted by global index and a key with
// no handlers has no entry at all.
//
// Mutations are visible to the next route build; a route already built
// keeps the handlers it copied.
type HandlerStore struct {
	mu        sync.RWMutex
	entries   []storeEntry
	validator SignatureValidator
}

type storeEntry struct {
	index    int
	handlers []HandlerInfo
}

// StoreOption configures a HandlerStore.
type StoreOption func(*HandlerStore)

// WithStoreValidator replaces the signature check used by AddHandler.
func WithStoreValidator(v SignatureValidator) StoreOption {
	return func(s *HandlerStore) {
		if v != nil {
			s.validator = v
		}
	}
}

// NewHandlerStore creates an empty store.
func NewHandlerStore(opts ...StoreOption) *HandlerStore {
	s := &HandlerStore{validator: DefaultSignatureValidator}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddHandler appends h to the handlers of e. The handler shape is checked
// before the store is touched.
func (s *HandlerStore) AddHandler(e *RoutedEvent, h *Handler, handledEventsToo bool) error {
	if err := checkHandler("AddHandler", s.validator, e, h); err != nil {
		return err
	}
	s.add(e.index, HandlerInfo{handler: h, handledEventsToo: handledEventsToo})
	return nil
}

// AddPrivate appends h to the handlers of a private key. Private handlers
// are not routed, so there is no shape check.
func (s *HandlerStore) AddPrivate(key *EventPrivateKey, h *Handler) error {
	if key == nil {
		return nilArg("AddPrivate", "key")
	}
	if h == nil {
		return nilArg("AddPrivate", "handler")
	}
	s.add(key.index, HandlerInfo{handler: h})
	return nil
}

// RemoveHandler removes the first occurrence of h from the handlers of e.
// Removing a handler that is not present is not an error.
func (s *HandlerStore) RemoveHandler(e *RoutedEvent, h *Handler) error {
	if err := checkHandler("RemoveHandler", s.validator, e, h); err != nil {
		return err
	}
	s.remove(e.index, h)
	return nil
}

// RemovePrivate removes the first occurrence of h from a private key.
func (s *HandlerStore) RemovePrivate(key *EventPrivateKey, h *Handler) error {
	if key == nil {
		return nilArg("RemovePrivate", "key")
	}
	if h == nil {
		return nilArg("RemovePrivate", "handler")
	}
	s.remove(key.index, h)
	return nil
}

// Contains reports whether any handler is attached for key.
func (s *HandlerStore) Contains(key Key) bool {
	if s == nil || key == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.find(key.GlobalIndex())
	return ok
}

// Handlers returns a snapshot of the handlers for key in registration
// order, or nil.
func (s *HandlerStore) Handlers(key Key) []HandlerInfo {
	if s == nil || key == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.find(key.GlobalIndex())
	if !ok {
		return nil
	}
	return slices.Clone(s.entries[i].handlers)
}

// Len returns the number of keys with at least one handler.
func (s *HandlerStore) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear removes every handler.
func (s *HandlerStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// addToRoute appends the handlers for e to r without copying the list.
func (s *HandlerStore) addToRoute(r *Route, target Target, e *RoutedEvent) {
	if s == nil {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.find(e.index)
	if !ok {
		return
	}
	for _, info := range s.entries[i].handlers {
		r.add(target, info)
	}
}

func (s *HandlerStore) add(index int, info HandlerInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.find(index)
	if ok {
		s.entries[i].handlers = append(s.entries[i].handlers, info)
		return
	}
	s.entries = slices.Insert(s.entries, i, storeEntry{index: index, handlers: []HandlerInfo{info}})
}

func (s *HandlerStore) remove(index int, h *Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.find(index)
	if !ok {
		return
	}
	handlers := s.entries[i].handlers
	for j, info := range handlers {
		if info.handler != h {
			continue
		}
		if len(handlers) == 1 {
			s.entries = slices.Delete(s.entries, i, i+1)
			return
		}
		// Fresh slice so snapshots taken earlier never see the shift.
		s.entries[i].handlers = append(append(make([]HandlerInfo, 0, len(handlers)-1), handlers[:j]...), handlers[j+1:]...)
		return
	}
}

// find returns the position of index, or where it would be inserted.
func (s *HandlerStore) find(index int) (int, bool) {
	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].index >= index
	})
	return i, i < len(s.entries) && s.entries[i].index == index
}
