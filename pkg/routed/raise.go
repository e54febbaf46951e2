package routed

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/routed/pkg/routed/journal"
	"github.com/randalmurphal/routed/pkg/routed/observability"
)

// AcquireRoute takes a route for e from the pool, or allocates one when the
// pool is empty. Release it with ReleaseRoute.
func (m *Manager) AcquireRoute(e *RoutedEvent) (*Route, error) {
	if e == nil {
		return nil, nilArg("AcquireRoute", "event")
	}
	r, pooled := m.pool.acquire(e)
	m.metrics.RecordRouteAcquire(context.Background(), pooled)
	return r, nil
}

// ReleaseRoute clears r and returns it to the pool if there is room.
func (m *Manager) ReleaseRoute(r *Route) {
	m.pool.release(r)
}

// WithRoute acquires a route for e, calls fn and releases the route even if
// fn panics.
func (m *Manager) WithRoute(e *RoutedEvent, fn func(r *Route) error) error {
	if fn == nil {
		return nilArg("WithRoute", "fn")
	}
	r, err := m.AcquireRoute(e)
	if err != nil {
		return err
	}
	defer m.ReleaseRoute(r)
	return fn(r)
}

// RaiseEvent raises args.RoutedEvent() on source.
//
// The route is built from source to the root (only source for Direct
// events). At each node class handlers run before instance handlers.
// Tunnel events visit the root first. Handlers skip events already marked
// handled unless they opted in. When no handler marked the event handled
// and args implement DefaultHandler, OnDefault runs last.
//
// The first handler error aborts the walk and is returned wrapped in a
// *HandlerError. Handler panics propagate after the route is released.
func (m *Manager) RaiseEvent(ctx context.Context, source Target, args EventArgs) error {
	if err := m.checkRaise(ctx, source, args); err != nil {
		return err
	}
	routed := args.Routed()
	if err := m.raise(ctx, source, args); err != nil {
		routed.phase = PhaseComplete
		return err
	}
	return m.finish(source, args)
}

// RaisePaired raises preview and then main with the same args, so a handled
// flag set during preview carries over. The default behavior runs once,
// after both. main is not raised if preview fails.
func (m *Manager) RaisePaired(ctx context.Context, source Target, args EventArgs, preview, main *RoutedEvent) error {
	if preview == nil {
		return nilArg("RaisePaired", "preview")
	}
	if main == nil {
		return nilArg("RaisePaired", "main")
	}
	if args == nil {
		return nilArg("RaisePaired", "args")
	}
	routed := args.Routed()

	for _, e := range []*RoutedEvent{preview, main} {
		if err := routed.SetRoutedEvent(e); err != nil {
			return err
		}
		if err := m.checkRaise(ctx, source, args); err != nil {
			return err
		}
		if err := m.raise(ctx, source, args); err != nil {
			routed.phase = PhaseComplete
			return err
		}
	}
	return m.finish(source, args)
}

func (m *Manager) checkRaise(ctx context.Context, source Target, args EventArgs) error {
	const op = "RaiseEvent"
	if ctx == nil {
		return nilArg(op, "ctx")
	}
	if source == nil {
		return nilArg(op, "source")
	}
	if args == nil {
		return nilArg(op, "args")
	}
	routed := args.Routed()
	if routed == nil {
		return nilArg(op, "args")
	}
	if routed.event == nil {
		return ErrNoRoutedEvent
	}
	if routed.event.manager != m {
		return ErrForeignObject
	}
	if routed.invoking {
		return ErrDispatchInProgress
	}
	return nil
}

// raise builds and walks the route. It does not run the default behavior.
func (m *Manager) raise(ctx context.Context, source Target, args EventArgs) (err error) {
	routed := args.Routed()
	e := routed.event
	strategy := e.strategy.String()
	start := time.Now()

	if routed.source == nil {
		routed.setSource(source)
	}
	routed.phase = PhaseRouteBuilding

	sourceName := targetName(source)
	observability.LogRaiseStart(m.logger, e.String(), sourceName)
	ctx, span := m.spans.StartRaiseSpan(ctx, e.name, e.owner.Name(), strategy)

	r, pooled := m.pool.acquire(e)
	m.metrics.RecordRouteAcquire(ctx, pooled)
	defer m.pool.release(r)

	var stats invokeStats
	defer func() {
		duration := time.Since(start)
		m.spans.EndSpanWithError(span, err)
		m.metrics.RecordRaise(ctx, e.String(), strategy, duration, stats.invoked, stats.skipped, err)
		if err != nil {
			observability.LogRaiseError(m.logger, e.String(), sourceName, err)
		} else {
			observability.LogRaiseComplete(m.logger, observability.RaiseInfo{
				Event:           e.String(),
				Strategy:        strategy,
				Source:          sourceName,
				RouteLength:     r.Len(),
				HandlersInvoked: stats.invoked,
				HandlersSkipped: stats.skipped,
				Handled:         routed.handled,
				Duration:        duration,
			})
		}
		m.record(ctx, e, sourceName, r.Len(), stats, routed.handled, err, start, duration)
	}()

	if err = m.buildRoute(r, source, e); err != nil {
		return err
	}
	m.spans.AddSpanEvent(ctx, "route.built", attribute.Int("route.length", r.Len()))

	routed.phase = PhaseDispatching
	stats, err = r.invoke(args)
	return err
}

// finish runs the default behavior and completes the raise.
func (m *Manager) finish(source Target, args EventArgs) error {
	routed := args.Routed()
	defer func() { routed.phase = PhaseComplete }()

	if routed.handled {
		return nil
	}
	d, ok := args.(DefaultHandler)
	if !ok {
		return nil
	}
	routed.phase = PhaseDefaultHandling
	routed.invoking = true
	err := func() error {
		defer func() { routed.invoking = false }()
		return d.OnDefault(source)
	}()
	if err != nil {
		return &HandlerError{Event: routed.event, Target: source, Err: err}
	}
	return nil
}

// buildRoute adds class and instance handlers of every node on the path.
func (m *Manager) buildRoute(r *Route, source Target, e *RoutedEvent) error {
	if e.strategy == Direct {
		return m.addNode(r, source, e)
	}

	n := 0
	for t := source; t != nil; t = m.walker.RoutingParent(t) {
		if n == m.maxRouteLength {
			return fmt.Errorf("%w (%d)", ErrTreeLoop, m.maxRouteLength)
		}
		n++
		if err := m.addNode(r, t, e); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) addNode(r *Route, t Target, e *RoutedEvent) error {
	if class := t.Class(); class != nil {
		if !m.types.Owns(class) {
			return fmt.Errorf("class %s of %s: %w", class.Name(), targetName(t), ErrForeignObject)
		}
		m.classes.appendToRoute(r, t, class, e)
	}
	t.Handlers().addToRoute(r, t, e)
	return nil
}

func (m *Manager) record(ctx context.Context, e *RoutedEvent, source string, routeLength int, stats invokeStats, handled bool, raiseErr error, start time.Time, duration time.Duration) {
	if m.journal == nil {
		return
	}
	entry := journal.NewEntry(e.name, e.owner.Name(), e.strategy.String())
	entry.Source = source
	entry.RouteLength = routeLength
	entry.Invoked = stats.invoked
	entry.Skipped = stats.skipped
	entry.Handled = handled
	entry.RaisedAt = start.UTC()
	entry.Duration = duration
	if raiseErr != nil {
		entry.Err = raiseErr.Error()
	}
	if err := m.journal.Record(ctx, entry); err != nil {
		observability.LogJournalError(m.logger, e.String(), err)
	}
}
