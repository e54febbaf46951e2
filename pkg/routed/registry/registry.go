package registry

import (
	"errors"
	"sync"
)

// ErrDuplicateKey is returned by Add when the key is already registered.
var ErrDuplicateKey = errors.New("registry: duplicate key")

// Indexed is a thread-safe registry that assigns every entry a dense,
// zero-based index in insertion order. Entries are never removed, so an
// index stays valid for the lifetime of the registry.
type Indexed[K comparable, V any] struct {
	mu      sync.RWMutex
	byKey   map[K]int
	entries []V
}

// New creates a new empty indexed registry.
func New[K comparable, V any]() *Indexed[K, V] {
	return &Indexed[K, V]{
		byKey: make(map[K]int),
	}
}

// Add registers a new entry under key. The factory receives the index the
// entry will occupy and is called with the write lock held, so it must not
// call back into the registry.
//
// Returns ErrDuplicateKey (and the zero V) if key is already present; the
// factory is not called in that case.
func (r *Indexed[K, V]) Add(key K, factory func(index int) V) (V, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byKey[key]; ok {
		var zero V
		return zero, ErrDuplicateKey
	}

	index := len(r.entries)
	v := factory(index)
	r.entries = append(r.entries, v)
	r.byKey[key] = index
	return v, nil
}

// Get returns the entry for key and whether it exists.
func (r *Indexed[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byKey[key]
	if !ok {
		var zero V
		return zero, false
	}
	return r.entries[i], true
}

// At returns the entry at index and whether the index is in range.
func (r *Indexed[K, V]) At(index int) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.entries) {
		var zero V
		return zero, false
	}
	return r.entries[index], true
}

// Has returns true if the key is registered.
func (r *Indexed[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byKey[key]
	return ok
}

// Len returns the number of entries, which is also the next index.
func (r *Indexed[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Values returns a snapshot of all entries in index order.
func (r *Indexed[K, V]) Values() []V {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]V, len(r.entries))
	copy(out, r.entries)
	return out
}

// Range calls fn for every entry in index order until fn returns false.
//
// Range iterates over a snapshot, so fn may call Add without deadlocking;
// entries added during iteration are not visited.
func (r *Indexed[K, V]) Range(fn func(index int, v V) bool) {
	for i, v := range r.Values() {
		if !fn(i, v) {
			return
		}
	}
}
