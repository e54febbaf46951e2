package registry

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	name  string
	index int
}

func newEntry(name string) func(int) *entry {
	return func(i int) *entry { return &entry{name: name, index: i} }
}

func TestNew(t *testing.T) {
	r := New[string, *entry]()
	require.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Values())
}

func TestAdd(t *testing.T) {
	t.Run("assigns dense indices in insertion order", func(t *testing.T) {
		r := New[string, *entry]()

		a, err := r.Add("a", newEntry("a"))
		require.NoError(t, err)
		b, err := r.Add("b", newEntry("b"))
		require.NoError(t, err)
		c, err := r.Add("c", newEntry("c"))
		require.NoError(t, err)

		assert.Equal(t, 0, a.index)
		assert.Equal(t, 1, b.index)
		assert.Equal(t, 2, c.index)
		assert.Equal(t, 3, r.Len())
	})

	t.Run("rejects duplicate keys without calling the factory", func(t *testing.T) {
		r := New[string, *entry]()
		_, err := r.Add("a", newEntry("a"))
		require.NoError(t, err)

		called := false
		v, err := r.Add("a", func(int) *entry {
			called = true
			return &entry{}
		})

		assert.True(t, errors.Is(err, ErrDuplicateKey))
		assert.Nil(t, v)
		assert.False(t, called)
		assert.Equal(t, 1, r.Len())
	})
}

func TestGetAndAt(t *testing.T) {
	r := New[string, *entry]()
	_, _ = r.Add("first", newEntry("first"))
	_, _ = r.Add("second", newEntry("second"))

	v, ok := r.Get("second")
	require.True(t, ok)
	assert.Equal(t, "second", v.name)

	v, ok = r.At(0)
	require.True(t, ok)
	assert.Equal(t, "first", v.name)

	_, ok = r.Get("missing")
	assert.False(t, ok)

	_, ok = r.At(-1)
	assert.False(t, ok)
	_, ok = r.At(2)
	assert.False(t, ok)

	assert.True(t, r.Has("first"))
	assert.False(t, r.Has("missing"))
}

func TestAdd_Concurrent(t *testing.T) {
	r := New[string, *entry]()
	var dups atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("e%d", i%50)
			if _, err := r.Add(name, newEntry(name)); errors.Is(err, ErrDuplicateKey) {
				dups.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(50), dups.Load())
	require.Equal(t, 50, r.Len())
	for i, v := range r.Values() {
		assert.Equal(t, i, v.index)
	}
}

func TestRange(t *testing.T) {
	t.Run("visits entries in index order", func(t *testing.T) {
		r := New[string, *entry]()
		for i := 0; i < 5; i++ {
			name := fmt.Sprintf("e%d", i)
			_, _ = r.Add(name, newEntry(name))
		}

		var seen []int
		r.Range(func(index int, v *entry) bool {
			assert.Equal(t, index, v.index)
			seen = append(seen, index)
			return true
		})
		assert.Equal(t, []int{0, 1, 2, 3, 4}, seen)
	})

	t.Run("stops when callback returns false", func(t *testing.T) {
		r := New[string, *entry]()
		_, _ = r.Add("a", newEntry("a"))
		_, _ = r.Add("b", newEntry("b"))

		count := 0
		r.Range(func(int, *entry) bool {
			count++
			return false
		})
		assert.Equal(t, 1, count)
	})

	t.Run("callback may add entries", func(t *testing.T) {
		r := New[string, *entry]()
		_, _ = r.Add("a", newEntry("a"))

		assert.NotPanics(t, func() {
			r.Range(func(int, *entry) bool {
				_, _ = r.Add("b", newEntry("b"))
				return true
			})
		})
		assert.Equal(t, 2, r.Len())
	})
}
