package routed

import (
	"slices"
	"sync"

	"github.com/randalmurphal/routed/pkg/routed/typeinfo"
)

// classBatch is one type's own class handlers for one event. next points at
// the nearest base type's batch and is shared, never copied.
type classBatch struct {
	handlers []HandlerInfo
	next     *classBatch
}

// contains reports whether target is b or reachable from b.
func (b *classBatch) contains(target *classBatch) bool {
	for c := b; c != nil; c = c.next {
		if c == target {
			return true
		}
	}
	return false
}

// classSlot links one type to the class handler chain of one event.
// batch is the chain head: the type's own batch when hasOwn is set,
// otherwise the inherited batch (possibly nil).
type classSlot struct {
	event  *RoutedEvent
	batch  *classBatch
	hasOwn bool
}

// classStore holds the slots of one type.
type classStore struct {
	class *typeinfo.Type
	slots []classSlot
}

func (s *classStore) slotIndex(e *RoutedEvent) int {
	for i := range s.slots {
		if s.slots[i].event == e {
			return i
		}
	}
	return -1
}

// classRegistry maps types, by dense type index, to their class handler
// chains. Type slots are created lazily on first lookup and linked to the
// nearest base type that has a slot for the event.
type classRegistry struct {
	mu     sync.RWMutex
	stores []*classStore // by type index, nil when the type has no slots
	active []*classStore // stores in creation order
}

// chain returns the head of the class handler chain of class for e,
// creating the slot if needed.
func (r *classRegistry) chain(class *typeinfo.Type, e *RoutedEvent) *classBatch {
	r.mu.RLock()
	if s := r.storeLocked(class); s != nil {
		if i := s.slotIndex(e); i >= 0 {
			head := s.slots[i].batch
			r.mu.RUnlock()
			return head
		}
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	s, i := r.updatedSlotLocked(class, e)
	return s.slots[i].batch
}

// register appends a class handler for class and relinks every subtype
// slot that inherited the previous chain. Returns how many subtype slots
// were relinked.
func (r *classRegistry) register(class *typeinfo.Type, e *RoutedEvent, info HandlerInfo) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, i := r.updatedSlotLocked(class, e)
	head := s.addOwnLocked(i, info)

	relinked := 0
	for _, sub := range r.active {
		if sub.class.IsSubtypeOf(class) && sub.relink(e, head) {
			relinked++
		}
	}
	return relinked
}

// updatedSlotLocked returns the store and slot index of class for e,
// creating the slot and linking it to the nearest base slot when missing.
func (r *classRegistry) updatedSlotLocked(class *typeinfo.Type, e *RoutedEvent) (*classStore, int) {
	s := r.storeLocked(class)
	if s != nil {
		if i := s.slotIndex(e); i >= 0 {
			return s, i
		}
	}

	var inherited *classBatch
	for base := class.Base(); base != nil; base = base.Base() {
		bs := r.storeLocked(base)
		if bs == nil {
			continue
		}
		if i := bs.slotIndex(e); i >= 0 {
			inherited = bs.slots[i].batch
			break
		}
	}

	if s == nil {
		s = &classStore{class: class}
		idx := class.Index()
		if idx >= len(r.stores) {
			r.stores = append(r.stores, make([]*classStore, idx+1-len(r.stores))...)
		}
		r.stores[idx] = s
		r.active = append(r.active, s)
	}
	s.slots = append(s.slots, classSlot{event: e, batch: inherited})
	return s, len(s.slots) - 1
}

func (r *classRegistry) storeLocked(class *typeinfo.Type) *classStore {
	idx := class.Index()
	if idx < len(r.stores) {
		return r.stores[idx]
	}
	return nil
}

// addOwnLocked appends info to the slot's own batch, creating the batch in
// front of the inherited chain on first use. Returns the new chain head.
func (s *classStore) addOwnLocked(i int, info HandlerInfo) *classBatch {
	slot := &s.slots[i]
	if slot.batch == nil || !slot.hasOwn {
		slot.batch = &classBatch{handlers: []HandlerInfo{info}, next: slot.batch}
		slot.hasOwn = true
		return slot.batch
	}
	slot.batch.handlers = append(slices.Clip(slot.batch.handlers), info)
	return slot.batch
}

// relink points the slot for e at head when the slot still inherits an
// older chain that head now covers. A slot whose inherited chain is not
// part of head's tail already goes through a closer type and is left alone.
func (s *classStore) relink(e *RoutedEvent, head *classBatch) bool {
	i := s.slotIndex(e)
	if i < 0 {
		return false
	}
	slot := &s.slots[i]

	inherited := slot.batch
	if slot.hasOwn {
		inherited = slot.batch.next
	}

	if inherited != nil && !head.next.contains(inherited) {
		return false
	}

	if slot.hasOwn {
		slot.batch.next = head
	} else {
		slot.batch = head
	}
	return true
}

// appendToRoute adds the class handlers of class for e to r, most derived
// batch first.
func (r *classRegistry) appendToRoute(route *Route, target Target, class *typeinfo.Type, e *RoutedEvent) {
	head := r.chain(class, e)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for b := head; b != nil; b = b.next {
		for _, info := range b.handlers {
			route.add(target, info)
		}
	}
}

// flatten returns the chain of class for e as one list.
func (r *classRegistry) flatten(class *typeinfo.Type, e *RoutedEvent) []HandlerInfo {
	head := r.chain(class, e)

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []HandlerInfo
	for b := head; b != nil; b = b.next {
		out = append(out, b.handlers...)
	}
	return out
}
