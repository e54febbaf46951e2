package routed

import (
	"sync"
)

// Route is the ordered list of (target, handler) pairs for one raise.
// Items are added source first. A route is owned by the goroutine that
// acquired it until it is released.
type Route struct {
	event  *RoutedEvent
	items  []routeItem
	groups []int // start index of each run of items with the same target
	inUse  bool
}

type routeItem struct {
	target Target
	info   HandlerInfo
}

// Event returns the event the route was acquired for.
func (r *Route) Event() *RoutedEvent { return r.event }

// Len returns the number of route items.
func (r *Route) Len() int { return len(r.items) }

// Targets returns the distinct targets in the order they were added.
func (r *Route) Targets() []Target {
	out := make([]Target, len(r.groups))
	for i, start := range r.groups {
		out[i] = r.items[start].target
	}
	return out
}

// Add appends a handler for target. Consecutive adds for the same target
// form one node of the route.
func (r *Route) Add(target Target, info HandlerInfo) error {
	if target == nil {
		return nilArg("Route.Add", "target")
	}
	if info.handler == nil {
		return nilArg("Route.Add", "handler")
	}
	r.add(target, info)
	return nil
}

func (r *Route) add(target Target, info HandlerInfo) {
	if n := len(r.items); n == 0 || r.items[n-1].target != target {
		r.groups = append(r.groups, len(r.items))
	}
	r.items = append(r.items, routeItem{target: target, info: info})
}

// InvokeHandlers calls the route's handlers with args. Tunnel routes visit
// their nodes last added first; within a node handlers keep their order.
// The walk stops at the first handler error.
func (r *Route) InvokeHandlers(args EventArgs) error {
	if args == nil {
		return nilArg("InvokeHandlers", "args")
	}
	_, err := r.invoke(args)
	return err
}

type invokeStats struct {
	invoked int
	skipped int
}

func (r *Route) invoke(args EventArgs) (invokeStats, error) {
	var stats invokeStats
	routed := args.Routed()

	run := func(from, to int) error {
		for _, item := range r.items[from:to] {
			if !item.info.shouldInvoke(routed.handled) {
				stats.skipped++
				continue
			}
			stats.invoked++
			if err := routed.invokeHandler(item.info.handler, item.target, args); err != nil {
				return &HandlerError{Event: r.event, Target: item.target, Err: err}
			}
		}
		return nil
	}

	if r.event != nil && r.event.strategy == Tunnel {
		end := len(r.items)
		for g := len(r.groups) - 1; g >= 0; g-- {
			if err := run(r.groups[g], end); err != nil {
				return stats, err
			}
			end = r.groups[g]
		}
		return stats, nil
	}
	return stats, run(0, len(r.items))
}

// reset drops every item and target reference.
func (r *Route) reset(e *RoutedEvent) {
	clear(r.items)
	r.items = r.items[:0]
	r.groups = r.groups[:0]
	r.event = e
}

// PoolStats reports route pool activity.
type PoolStats struct {
	Capacity int
	Idle     int
	// Hits counts acquisitions served from the pool.
	Hits uint64
	// Misses counts acquisitions that allocated a new route.
	Misses uint64
	// Returned counts releases that put a route back in the pool.
	Returned uint64
	// Dropped counts releases discarded because the pool was full.
	Dropped uint64
}

// routePool is a bounded free list of routes.
type routePool struct {
	mu    sync.Mutex
	free  []*Route
	stats PoolStats
}

func newRoutePool(capacity int) *routePool {
	return &routePool{
		free:  make([]*Route, 0, capacity),
		stats: PoolStats{Capacity: capacity},
	}
}

// acquire returns a reset route for e and whether it came from the pool.
func (p *routePool) acquire(e *RoutedEvent) (*Route, bool) {
	p.mu.Lock()
	var r *Route
	if n := len(p.free); n > 0 {
		r = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		p.stats.Hits++
	} else {
		p.stats.Misses++
	}
	p.mu.Unlock()

	pooled := r != nil
	if r == nil {
		r = &Route{}
	}
	r.reset(e)
	r.inUse = true
	return r, pooled
}

// release clears r and keeps it if the pool has room. Releasing a route
// twice is a no-op.
func (p *routePool) release(r *Route) {
	if r == nil || !r.inUse {
		return
	}
	r.inUse = false
	r.reset(nil)

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) < p.stats.Capacity {
		p.free = append(p.free, r)
		p.stats.Returned++
		return
	}
	p.stats.Dropped++
}

func (p *routePool) snapshot() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.Idle = len(p.free)
	return s
}
