// Package registry provides a generic thread-safe registry that hands out
// dense indices.
//
// Indexed is designed for identity tables that are written rarely and read
// on hot paths: every entry receives the next zero-based index when it is
// added, and that index never changes. Callers use the index to address
// per-entry state in plain slices instead of maps.
//
// # Basic Usage
//
//	r := registry.New[string, *Class]()
//	button, err := r.Add("Button", func(index int) *Class {
//	    return &Class{Name: "Button", Index: index}
//	})
//	if errors.Is(err, registry.ErrDuplicateKey) {
//	    // "Button" was already registered
//	}
//
//	c, ok := r.Get("Button")
//	c, ok = r.At(button.Index)
//
// # Thread Safety
//
// All methods are safe for concurrent use. Range iterates over a snapshot,
// so the callback may register new entries.
package registry
