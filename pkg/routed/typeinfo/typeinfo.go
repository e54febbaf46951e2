// Package typeinfo models the class hierarchy that routed events use to
// resolve inherited class handlers.
//
// A Type has a name, at most one base type and a dense index assigned by the
// Registry that defined it. The index addresses per-type tables directly, so
// lookups on the dispatch path never hash.
//
//	types := typeinfo.NewRegistry()
//	element := types.MustDefine("UIElement", nil)
//	button := types.MustDefine("ButtonBase", element)
//	button.IsSubtypeOf(element) // true
package typeinfo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/randalmurphal/routed/pkg/routed/registry"
)

// Errors returned by Registry.Define.
var (
	// ErrEmptyName indicates a type was defined without a name.
	ErrEmptyName = errors.New("type name cannot be empty")

	// ErrTypeExists indicates a type with the same name is already defined.
	ErrTypeExists = errors.New("type already defined")

	// ErrForeignBase indicates the base type belongs to another registry.
	ErrForeignBase = errors.New("base type belongs to another registry")
)

// Type is a node in a single-inheritance class hierarchy.
// Types are immutable after definition and safe to share between goroutines.
type Type struct {
	name  string
	base  *Type
	index int
	depth int
	owner *Registry
}

// Name returns the type name.
func (t *Type) Name() string { return t.name }

// Base returns the base type, or nil for a root type.
func (t *Type) Base() *Type { return t.base }

// Index returns the dense index assigned by the defining registry.
func (t *Type) Index() int { return t.index }

// Depth returns the number of base types above t.
func (t *Type) Depth() int { return t.depth }

// IsSubtypeOf reports whether t derives from other. A type is not a
// subtype of itself.
func (t *Type) IsSubtypeOf(other *Type) bool {
	if t == nil || other == nil {
		return false
	}
	for b := t.base; b != nil; b = b.base {
		if b == other {
			return true
		}
	}
	return false
}

// IsAssignableTo reports whether t is other or derives from it.
func (t *Type) IsAssignableTo(other *Type) bool {
	return t != nil && (t == other || t.IsSubtypeOf(other))
}

// Ancestors returns t followed by each base type up to the root.
func (t *Type) Ancestors() []*Type {
	if t == nil {
		return nil
	}
	out := make([]*Type, 0, t.depth+1)
	for c := t; c != nil; c = c.base {
		out = append(out, c)
	}
	return out
}

// String returns the type name qualified with its base chain,
// e.g. "MyButton:ButtonBase:UIElement".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.base == nil {
		return t.name
	}
	names := make([]string, 0, t.depth+1)
	for c := t; c != nil; c = c.base {
		names = append(names, c.name)
	}
	return strings.Join(names, ":")
}

// Registry defines types and hands out their indices.
// All methods are safe for concurrent use.
type Registry struct {
	types *registry.Indexed[string, *Type]
}

// NewRegistry creates an empty type registry.
func NewRegistry() *Registry {
	return &Registry{types: registry.New[string, *Type]()}
}

// Define creates a new type. base may be nil for a root type but must
// otherwise come from this registry.
func (r *Registry) Define(name string, base *Type) (*Type, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if base != nil && base.owner != r {
		return nil, fmt.Errorf("define %s: %w", name, ErrForeignBase)
	}

	depth := 0
	if base != nil {
		depth = base.depth + 1
	}

	t, err := r.types.Add(name, func(index int) *Type {
		return &Type{name: name, base: base, index: index, depth: depth, owner: r}
	})
	if errors.Is(err, registry.ErrDuplicateKey) {
		return nil, fmt.Errorf("define %s: %w", name, ErrTypeExists)
	}
	return t, err
}

// MustDefine is like Define but panics on error.
// Intended for package-level type declarations.
func (r *Registry) MustDefine(name string, base *Type) *Type {
	t, err := r.Define(name, base)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the type with the given name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	return r.types.Get(name)
}

// At returns the type with the given index.
func (r *Registry) At(index int) (*Type, bool) {
	return r.types.At(index)
}

// Len returns the number of defined types.
func (r *Registry) Len() int {
	return r.types.Len()
}

// Types returns all types in definition order.
func (r *Registry) Types() []*Type {
	return r.types.Values()
}

// Owns reports whether t was defined by this registry.
func (r *Registry) Owns(t *Type) bool {
	return t != nil && t.owner == r
}

// SubtypesOf returns every type that strictly derives from base,
// in definition order.
func (r *Registry) SubtypesOf(base *Type) []*Type {
	var out []*Type
	r.types.Range(func(_ int, t *Type) bool {
		if t.IsSubtypeOf(base) {
			out = append(out, t)
		}
		return true
	})
	return out
}
