package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/randalmurphal/routed/pkg/routed"
	"github.com/randalmurphal/routed/pkg/routed/tree"
	"github.com/randalmurphal/routed/pkg/routed/typeinfo"
)

type scene struct {
	m       *routed.Manager
	element *typeinfo.Type
	leaf    *tree.Node
	bubble  *routed.RoutedEvent
	tunnel  *routed.RoutedEvent
}

// newScene builds a chain of depth nodes with one instance handler per node
// for both a bubbling and a tunneling event.
func newScene(b *testing.B, depth int, opts ...routed.Option) *scene {
	b.Helper()
	m := routed.NewManager(opts...)
	element := m.Types().MustDefine("UIElement", nil)
	s := &scene{
		m:       m,
		element: element,
		bubble:  m.MustRegisterRoutedEvent("Click", routed.Bubble, routed.UniversalHandlerType, element),
		tunnel:  m.MustRegisterRoutedEvent("PreviewClick", routed.Tunnel, routed.UniversalHandlerType, element),
	}

	h := routed.NewHandler(func(routed.Target, *routed.RoutedEventArgs) error { return nil })
	var parent *tree.Node
	for i := 0; i < depth; i++ {
		n := tree.New(fmt.Sprintf("n%d", i), element, tree.WithManager(m))
		if err := n.AddHandler(s.bubble, h, false); err != nil {
			b.Fatal(err)
		}
		if err := n.AddHandler(s.tunnel, h, false); err != nil {
			b.Fatal(err)
		}
		if parent != nil {
			if err := parent.AppendChild(n); err != nil {
				b.Fatal(err)
			}
		}
		parent = n
	}
	s.leaf = parent
	return s
}

func (s *scene) run(b *testing.B, e *routed.RoutedEvent) {
	b.Helper()
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.m.RaiseEvent(ctx, s.leaf, routed.NewRoutedEventArgs(e)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRaise_Bubble_5 bubbles through a 5-node chain.
func BenchmarkRaise_Bubble_5(b *testing.B) {
	s := newScene(b, 5)
	s.run(b, s.bubble)
}

// BenchmarkRaise_Bubble_10 bubbles through a 10-node chain.
func BenchmarkRaise_Bubble_10(b *testing.B) {
	s := newScene(b, 10)
	s.run(b, s.bubble)
}

// BenchmarkRaise_Bubble_50 bubbles through a 50-node chain.
func BenchmarkRaise_Bubble_50(b *testing.B) {
	s := newScene(b, 50)
	s.run(b, s.bubble)
}

// BenchmarkRaise_Bubble_100 bubbles through a 100-node chain.
func BenchmarkRaise_Bubble_100(b *testing.B) {
	s := newScene(b, 100)
	s.run(b, s.bubble)
}

// BenchmarkRaise_Tunnel_50 tunnels through a 50-node chain.
func BenchmarkRaise_Tunnel_50(b *testing.B) {
	s := newScene(b, 50)
	s.run(b, s.tunnel)
}

// BenchmarkRaise_NoPool_50 bubbles with route pooling disabled.
func BenchmarkRaise_NoPool_50(b *testing.B) {
	s := newScene(b, 50, routed.WithRoutePoolCapacity(0))
	s.run(b, s.bubble)
}

// BenchmarkRaise_ClassChain_10 bubbles through nodes of a type five levels
// below the owner, each level carrying a class handler.
func BenchmarkRaise_ClassChain_10(b *testing.B) {
	s := newScene(b, 0)
	h := routed.NewHandler(func(routed.Target, *routed.RoutedEventArgs) error { return nil })

	class := s.element
	for i := 0; i < 5; i++ {
		class = s.m.Types().MustDefine(fmt.Sprintf("Level%d", i), class)
		if err := s.m.RegisterClassHandler(class, s.bubble, h, false); err != nil {
			b.Fatal(err)
		}
	}

	var parent *tree.Node
	for i := 0; i < 10; i++ {
		n := tree.New(fmt.Sprintf("n%d", i), class, tree.WithManager(s.m))
		if parent != nil {
			if err := parent.AppendChild(n); err != nil {
				b.Fatal(err)
			}
		}
		parent = n
	}
	s.leaf = parent
	s.run(b, s.bubble)
}

// BenchmarkRaisePaired_10 raises a tunnel/bubble pair through a 10-node chain.
func BenchmarkRaisePaired_10(b *testing.B) {
	s := newScene(b, 10)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		args := routed.NewRoutedEventArgs(s.bubble)
		if err := s.m.RaisePaired(ctx, s.leaf, args, s.tunnel, s.bubble); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkAddRemoveHandler measures store churn on a single node.
func BenchmarkAddRemoveHandler(b *testing.B) {
	s := newScene(b, 1)
	h := routed.NewHandler(func(routed.Target, *routed.RoutedEventArgs) error { return nil })
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.leaf.AddHandler(s.bubble, h, false); err != nil {
			b.Fatal(err)
		}
		if err := s.leaf.RemoveHandler(s.bubble, h); err != nil {
			b.Fatal(err)
		}
	}
}
