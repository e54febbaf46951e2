package tree_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/routed/pkg/routed"
	"github.com/randalmurphal/routed/pkg/routed/tree"
)

func TestAppendChild(t *testing.T) {
	m := routed.NewManager()
	element := m.Types().MustDefine("UIElement", nil)

	root := tree.New("root", element)
	panel := tree.New("panel", element)
	leaf := tree.New("leaf", element)

	require.NoError(t, root.AppendChild(panel))
	require.NoError(t, panel.AppendChild(leaf))

	assert.Same(t, panel, leaf.Parent())
	assert.Equal(t, []*tree.Node{panel}, root.Children())
	assert.Equal(t, "root/panel/leaf", leaf.Path())
	assert.Equal(t, "leaf", leaf.String())

	t.Run("rejects a second parent", func(t *testing.T) {
		other := tree.New("other", element)
		assert.ErrorIs(t, other.AppendChild(leaf), tree.ErrHasParent)
	})

	t.Run("rejects cycles", func(t *testing.T) {
		assert.ErrorIs(t, leaf.AppendChild(root), tree.ErrCycle)
		assert.ErrorIs(t, leaf.AppendChild(leaf), tree.ErrCycle)
	})

	t.Run("rejects nil", func(t *testing.T) {
		assert.ErrorIs(t, root.AppendChild(nil), routed.ErrNilArgument)
	})
}

func TestAppendChild_ConcurrentParents(t *testing.T) {
	m := routed.NewManager()
	element := m.Types().MustDefine("UIElement", nil)

	for trial := 0; trial < 50; trial++ {
		child := tree.New("child", element)
		parents := make([]*tree.Node, 8)
		for i := range parents {
			parents[i] = tree.New(fmt.Sprintf("p%d", i), element)
		}

		var wins atomic.Int32
		var wg sync.WaitGroup
		for _, p := range parents {
			wg.Add(1)
			go func(p *tree.Node) {
				defer wg.Done()
				if err := p.AppendChild(child); err == nil {
					wins.Add(1)
				} else {
					assert.ErrorIs(t, err, tree.ErrHasParent)
				}
			}(p)
		}
		wg.Wait()

		require.Equal(t, int32(1), wins.Load())
		listed := 0
		for _, p := range parents {
			listed += len(p.Children())
		}
		assert.Equal(t, 1, listed, "child must be listed under exactly one parent")
		assert.Contains(t, child.Parent().Children(), child)
	}
}

func TestRemoveChild(t *testing.T) {
	m := routed.NewManager()
	element := m.Types().MustDefine("UIElement", nil)

	root := tree.New("root", element)
	child := tree.New("child", element)
	require.NoError(t, root.AppendChild(child))

	require.NoError(t, root.RemoveChild(child))
	assert.Nil(t, child.Parent())
	assert.Empty(t, root.Children())
	assert.Nil(t, child.RoutingParent(), "detached node must report an untyped nil parent")

	assert.ErrorIs(t, root.RemoveChild(child), tree.ErrNotChild)
	assert.ErrorIs(t, root.RemoveChild(nil), routed.ErrNilArgument)
}

func TestWalk(t *testing.T) {
	m := routed.NewManager()
	element := m.Types().MustDefine("UIElement", nil)

	root := tree.New("root", element)
	a := tree.New("a", element)
	b := tree.New("b", element)
	a1 := tree.New("a1", element)
	require.NoError(t, root.AppendChild(a))
	require.NoError(t, root.AppendChild(b))
	require.NoError(t, a.AppendChild(a1))

	var visited []string
	root.Walk(func(n *tree.Node) bool {
		visited = append(visited, n.Name())
		return true
	})
	assert.Equal(t, []string{"root", "a", "a1", "b"}, visited)

	visited = nil
	root.Walk(func(n *tree.Node) bool {
		visited = append(visited, n.Name())
		return n.Name() != "a1"
	})
	assert.Equal(t, []string{"root", "a", "a1"}, visited)
}

func TestHandlers(t *testing.T) {
	m := routed.NewManager()
	element := m.Types().MustDefine("UIElement", nil)
	click := m.MustRegisterRoutedEvent("Click", routed.Bubble, routed.UniversalHandlerType, element)

	n := tree.New("n", element)
	assert.Nil(t, n.Handlers(), "store is created lazily")

	h := routed.NewHandler(func(routed.Target, *routed.RoutedEventArgs) error { return nil })
	require.NoError(t, n.RemoveHandler(click, h), "removing from an empty node is a no-op")

	require.NoError(t, n.AddHandler(click, h, false))
	require.NotNil(t, n.Handlers())
	assert.True(t, n.Handlers().Contains(click))

	require.NoError(t, n.RemoveHandler(click, h))
	assert.False(t, n.Handlers().Contains(click))

	assert.ErrorIs(t, n.RemoveHandler(nil, h), routed.ErrNilArgument)
}

func TestWithManagerValidator(t *testing.T) {
	rejectAll := func(required, actual routed.HandlerType) bool { return false }
	m := routed.NewManager(routed.WithSignatureValidator(rejectAll))
	element := m.Types().MustDefine("UIElement", nil)
	click := m.MustRegisterRoutedEvent("Click", routed.Bubble, routed.UniversalHandlerType, element)

	n := tree.New("n", element, tree.WithManager(m))
	h := routed.NewHandler(func(routed.Target, *routed.RoutedEventArgs) error { return nil })
	assert.ErrorIs(t, n.AddHandler(click, h, false), routed.ErrInvalidHandlerType)
}

func TestWithHandlerStore(t *testing.T) {
	m := routed.NewManager()
	element := m.Types().MustDefine("UIElement", nil)
	click := m.MustRegisterRoutedEvent("Click", routed.Bubble, routed.UniversalHandlerType, element)

	shared := routed.NewHandlerStore()
	a := tree.New("a", element, tree.WithHandlerStore(shared))
	b := tree.New("b", element, tree.WithHandlerStore(shared))

	calls := 0
	h := routed.NewHandler(func(routed.Target, *routed.RoutedEventArgs) error {
		calls++
		return nil
	})
	require.NoError(t, a.AddHandler(click, h, false))
	require.NoError(t, b.AddHandler(click, h, false))
	assert.Len(t, shared.Handlers(click), 2)

	require.NoError(t, m.RaiseEvent(context.Background(), a, routed.NewRoutedEventArgs(click)))
	assert.Equal(t, 2, calls)
}

func TestBubbleThroughTree(t *testing.T) {
	m := routed.NewManager()
	element := m.Types().MustDefine("UIElement", nil)
	click := m.MustRegisterRoutedEvent("Click", routed.Bubble, routed.UniversalHandlerType, element)

	root := tree.New("root", element)
	panel := tree.New("panel", element)
	leaf := tree.New("leaf", element)
	require.NoError(t, root.AppendChild(panel))
	require.NoError(t, panel.AppendChild(leaf))

	var order []string
	for _, n := range []*tree.Node{root, panel, leaf} {
		n := n
		require.NoError(t, n.AddHandler(click, routed.NewHandler(func(sender routed.Target, args *routed.RoutedEventArgs) error {
			assert.Same(t, n, sender)
			assert.Same(t, leaf, args.Source())
			order = append(order, n.Name())
			return nil
		}), false))
	}

	require.NoError(t, m.RaiseEvent(context.Background(), leaf, routed.NewRoutedEventArgs(click)))
	assert.Equal(t, []string{"leaf", "panel", "root"}, order)

	path, err := routed.AncestorPath(routed.ParentWalker, leaf, 10)
	require.NoError(t, err)
	assert.Equal(t, []routed.Target{leaf, panel, root}, path)
}
