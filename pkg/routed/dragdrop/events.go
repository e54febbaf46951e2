// Package dragdrop defines the drag-and-drop routed events and a drag loop
// that raises them.
//
// Every event comes as a pair: a tunneling Preview event followed by its
// bubbling counterpart, raised with the same args so a handled preview
// silences the bubble handlers.
//
//	events, err := dragdrop.Register(m, element)
//	...
//	_, err = events.AddDropHandler(listBox, func(sender routed.Target, a *dragdrop.DragEventArgs) error {
//	    items = append(items, a.Data())
//	    a.MarkHandled()
//	    return nil
//	})
package dragdrop

import (
	"context"
	"fmt"

	"github.com/randalmurphal/routed/pkg/routed"
	"github.com/randalmurphal/routed/pkg/routed/typeinfo"
)

// Events is the set of drag-and-drop events registered on one Manager.
type Events struct {
	m *routed.Manager

	PreviewQueryContinueDrag *routed.RoutedEvent
	QueryContinueDrag        *routed.RoutedEvent
	PreviewGiveFeedback      *routed.RoutedEvent
	GiveFeedback             *routed.RoutedEvent
	PreviewDragEnter         *routed.RoutedEvent
	DragEnter                *routed.RoutedEvent
	PreviewDragOver          *routed.RoutedEvent
	DragOver                 *routed.RoutedEvent
	PreviewDragLeave         *routed.RoutedEvent
	DragLeave                *routed.RoutedEvent
	PreviewDrop              *routed.RoutedEvent
	Drop                     *routed.RoutedEvent
}

// Register registers the drag-and-drop events with owner as their owner
// type. If any of the names is already registered for owner, none of the
// events is registered.
func Register(m *routed.Manager, owner *typeinfo.Type) (*Events, error) {
	if m == nil {
		return nil, &routed.ArgumentError{Op: "dragdrop.Register", Arg: "manager"}
	}

	ev := &Events{m: m}
	pairs := []struct {
		name            string
		shape           routed.HandlerType
		preview, bubble **routed.RoutedEvent
	}{
		{"QueryContinueDrag", routed.HandlerTypeFor[*QueryContinueDragEventArgs](), &ev.PreviewQueryContinueDrag, &ev.QueryContinueDrag},
		{"GiveFeedback", routed.HandlerTypeFor[*GiveFeedbackEventArgs](), &ev.PreviewGiveFeedback, &ev.GiveFeedback},
		{"DragEnter", routed.HandlerTypeFor[*DragEventArgs](), &ev.PreviewDragEnter, &ev.DragEnter},
		{"DragOver", routed.HandlerTypeFor[*DragEventArgs](), &ev.PreviewDragOver, &ev.DragOver},
		{"DragLeave", routed.HandlerTypeFor[*DragEventArgs](), &ev.PreviewDragLeave, &ev.DragLeave},
		{"Drop", routed.HandlerTypeFor[*DragEventArgs](), &ev.PreviewDrop, &ev.Drop},
	}

	defs := make([]routed.EventDefinition, 0, 2*len(pairs))
	for _, p := range pairs {
		defs = append(defs,
			routed.EventDefinition{Name: "Preview" + p.name, Strategy: routed.Tunnel, HandlerType: p.shape, Owner: owner},
			routed.EventDefinition{Name: p.name, Strategy: routed.Bubble, HandlerType: p.shape, Owner: owner},
		)
	}
	events, err := m.RegisterRoutedEvents(defs...)
	if err != nil {
		return nil, fmt.Errorf("register drag and drop events: %w", err)
	}
	for i, p := range pairs {
		*p.preview, *p.bubble = events[2*i], events[2*i+1]
	}
	return ev, nil
}

// Manager returns the manager the events belong to.
func (ev *Events) Manager() *routed.Manager { return ev.m }

// All returns every event, previews first within each pair.
func (ev *Events) All() []*routed.RoutedEvent {
	return []*routed.RoutedEvent{
		ev.PreviewQueryContinueDrag, ev.QueryContinueDrag,
		ev.PreviewGiveFeedback, ev.GiveFeedback,
		ev.PreviewDragEnter, ev.DragEnter,
		ev.PreviewDragOver, ev.DragOver,
		ev.PreviewDragLeave, ev.DragLeave,
		ev.PreviewDrop, ev.Drop,
	}
}

// RaiseQueryContinueDrag raises PreviewQueryContinueDrag and
// QueryContinueDrag on source and returns the decided action.
func (ev *Events) RaiseQueryContinueDrag(ctx context.Context, source routed.Target, escapePressed bool, keyStates DragDropKeyStates) (DragAction, error) {
	args, err := NewQueryContinueDragEventArgs(escapePressed, keyStates)
	if err != nil {
		return Cancel, err
	}
	if err := ev.m.RaisePaired(ctx, source, args, ev.PreviewQueryContinueDrag, ev.QueryContinueDrag); err != nil {
		return Cancel, err
	}
	return args.Action(), nil
}

// RaiseGiveFeedback raises PreviewGiveFeedback and GiveFeedback on source
// and reports whether the default cursors should be used.
func (ev *Events) RaiseGiveFeedback(ctx context.Context, source routed.Target, effects DragDropEffects) (bool, error) {
	args, err := NewGiveFeedbackEventArgs(effects, false)
	if err != nil {
		return false, err
	}
	if err := ev.m.RaisePaired(ctx, source, args, ev.PreviewGiveFeedback, ev.GiveFeedback); err != nil {
		return false, err
	}
	return args.UseDefaultCursors(), nil
}

// RaiseDragEnter raises PreviewDragEnter and DragEnter on target.
func (ev *Events) RaiseDragEnter(ctx context.Context, target routed.Target, args *DragEventArgs) error {
	return ev.raiseDrag(ctx, target, args, ev.PreviewDragEnter, ev.DragEnter)
}

// RaiseDragOver raises PreviewDragOver and DragOver on target.
func (ev *Events) RaiseDragOver(ctx context.Context, target routed.Target, args *DragEventArgs) error {
	return ev.raiseDrag(ctx, target, args, ev.PreviewDragOver, ev.DragOver)
}

// RaiseDragLeave raises PreviewDragLeave and DragLeave on target.
func (ev *Events) RaiseDragLeave(ctx context.Context, target routed.Target, args *DragEventArgs) error {
	return ev.raiseDrag(ctx, target, args, ev.PreviewDragLeave, ev.DragLeave)
}

// RaiseDrop raises PreviewDrop and Drop on target.
func (ev *Events) RaiseDrop(ctx context.Context, target routed.Target, args *DragEventArgs) error {
	return ev.raiseDrag(ctx, target, args, ev.PreviewDrop, ev.Drop)
}

func (ev *Events) raiseDrag(ctx context.Context, target routed.Target, args *DragEventArgs, preview, bubble *routed.RoutedEvent) error {
	if args == nil {
		return &routed.ArgumentError{Op: "Raise" + bubble.Name(), Arg: "args"}
	}
	return ev.m.RaisePaired(ctx, target, args, preview, bubble)
}

// AddDropHandler attaches a typed Drop handler to node. The handler value
// is returned so it can be removed later.
func (ev *Events) AddDropHandler(node routed.Target, fn func(sender routed.Target, args *DragEventArgs) error) (*routed.Handler, error) {
	return addTyped(node, ev.Drop, fn)
}

// AddDragOverHandler attaches a typed DragOver handler to node.
func (ev *Events) AddDragOverHandler(node routed.Target, fn func(sender routed.Target, args *DragEventArgs) error) (*routed.Handler, error) {
	return addTyped(node, ev.DragOver, fn)
}

// AddQueryContinueDragHandler attaches a typed QueryContinueDrag handler to
// node.
func (ev *Events) AddQueryContinueDragHandler(node routed.Target, fn func(sender routed.Target, args *QueryContinueDragEventArgs) error) (*routed.Handler, error) {
	return addTyped(node, ev.QueryContinueDrag, fn)
}

// handlerAdder is implemented by nodes that create their store lazily,
// such as tree.Node.
type handlerAdder interface {
	AddHandler(e *routed.RoutedEvent, h *routed.Handler, handledEventsToo bool) error
}

func addTyped[A routed.EventArgs](node routed.Target, e *routed.RoutedEvent, fn func(routed.Target, A) error) (*routed.Handler, error) {
	if node == nil {
		return nil, &routed.ArgumentError{Op: "Add" + e.Name() + "Handler", Arg: "node"}
	}
	h := routed.NewTypedHandler(fn)
	if adder, ok := node.(handlerAdder); ok {
		if err := adder.AddHandler(e, h, false); err != nil {
			return nil, err
		}
		return h, nil
	}
	store := node.Handlers()
	if store == nil {
		return nil, fmt.Errorf("node %v has no handler store: %w", node, routed.ErrNilArgument)
	}
	if err := store.AddHandler(e, h, false); err != nil {
		return nil, err
	}
	return h, nil
}
