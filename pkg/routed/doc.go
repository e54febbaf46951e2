// Package routed provides routed events: events raised on one node of a
// tree and delivered along a computed route to class handlers and instance
// handlers.
//
// # Concepts
//
//   - RoutedEvent: an immutable event identity with a name, a routing
//     strategy (Tunnel, Bubble, Direct), a required handler shape and an
//     owner type. Every identity gets a global index from the Manager.
//   - Class handler: registered on a type, runs for every instance of the
//     type and its subtypes.
//   - Instance handler: stored in the HandlerStore of one node.
//   - Route: the (node, handler) list built for one raise. Routes come from a
//     small pool and are cleared when released.
//
// # Basic Usage
//
//	m := routed.NewManager()
//	element := m.Types().MustDefine("UIElement", nil)
//	button := m.Types().MustDefine("ButtonBase", element)
//
//	click := m.MustRegisterRoutedEvent("Click", routed.Bubble,
//	    routed.UniversalHandlerType, button)
//
//	err := m.RegisterClassHandler(button, click, routed.NewHandler(
//	    func(sender routed.Target, args *routed.RoutedEventArgs) error {
//	        args.MarkHandled()
//	        return nil
//	    }), false)
//
//	err = m.RaiseEvent(ctx, okButton, routed.NewRoutedEventArgs(click))
//
// Targets are usually tree.Node values; any type implementing Target works
// as long as a TreeWalker can find its routing parent.
//
// # Dispatch Order
//
// Bubble routes visit the source and then each routing parent. Tunnel
// routes visit the same nodes in reverse. Direct routes visit only the
// source. At each node the class handlers of the node's type run first,
// the most derived type's handlers before those of its base types, then the
// instance handlers in registration order.
//
// Once a handler calls MarkHandled, later handlers are skipped unless they
// were added with handledEventsToo. If the event is still unhandled after
// the route and the args implement DefaultHandler, OnDefault runs.
//
// # Errors
//
// Registration errors are returned before any state changes:
//
//	_, err := m.RegisterRoutedEvent("Click", routed.Bubble, shape, button)
//	if errors.Is(err, routed.ErrDuplicateRegistration) {
//	    // Click already registered for ButtonBase
//	}
//
// A handler error stops the route walk and is returned as *HandlerError.
//
// # Thread Safety
//
// Registries and the route pool are safe for concurrent use. A raise runs
// its handlers synchronously on the calling goroutine and no lock is held
// while a handler runs, so handlers may add handlers or raise events.
package routed
