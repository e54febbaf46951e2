package routed

// EventArgs is implemented by every args type that can be raised.
// Custom args embed RoutedEventArgs, which provides Routed.
type EventArgs interface {
	Routed() *RoutedEventArgs
}

// DefaultHandler is implemented by args that carry a default behavior.
// OnDefault runs once after the whole route if no handler marked the
// event handled.
type DefaultHandler interface {
	EventArgs
	OnDefault(source Target) error
}

// Phase is the dispatch state of one raise.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseRouteBuilding
	PhaseDispatching
	PhaseDefaultHandling
	PhaseComplete
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseRouteBuilding:
		return "RouteBuilding"
	case PhaseDispatching:
		return "Dispatching"
	case PhaseDefaultHandling:
		return "DefaultHandling"
	case PhaseComplete:
		return "Complete"
	default:
		return "Phase(invalid)"
	}
}

// RoutedEventArgs is the payload of a raise: the event identity, the
// source, the handled flag and the dispatch phase.
//
// The handled flag is sticky. MarkHandled sets it and only ResetHandled
// clears it.
type RoutedEventArgs struct {
	event          *RoutedEvent
	source         Target
	originalSource Target
	handled        bool
	phase          Phase
	invoking       bool
}

// NewRoutedEventArgs creates args for e with no source yet; the raise
// fills it in.
func NewRoutedEventArgs(e *RoutedEvent) *RoutedEventArgs {
	return &RoutedEventArgs{event: e}
}

// NewRoutedEventArgsFrom creates args for e with an explicit source.
func NewRoutedEventArgsFrom(e *RoutedEvent, source Target) *RoutedEventArgs {
	return &RoutedEventArgs{event: e, source: source, originalSource: source}
}

// Routed implements EventArgs.
func (a *RoutedEventArgs) Routed() *RoutedEventArgs { return a }

// RoutedEvent returns the event being raised.
func (a *RoutedEventArgs) RoutedEvent() *RoutedEvent { return a.event }

// SetRoutedEvent changes the event. Not allowed while a handler runs.
func (a *RoutedEventArgs) SetRoutedEvent(e *RoutedEvent) error {
	if e == nil {
		return nilArg("SetRoutedEvent", "event")
	}
	if a.invoking {
		return ErrDispatchInProgress
	}
	a.event = e
	return nil
}

// Source returns the current source.
func (a *RoutedEventArgs) Source() Target { return a.source }

// OriginalSource returns the first source ever assigned.
func (a *RoutedEventArgs) OriginalSource() Target { return a.originalSource }

// SetSource changes the source. The first assignment also sets the
// original source. Not allowed while a handler runs.
func (a *RoutedEventArgs) SetSource(source Target) error {
	if source == nil {
		return nilArg("SetSource", "source")
	}
	if a.invoking {
		return ErrDispatchInProgress
	}
	a.setSource(source)
	return nil
}

func (a *RoutedEventArgs) setSource(source Target) {
	if a.originalSource == nil {
		a.originalSource = source
	}
	a.source = source
}

// Handled reports whether a handler marked the event handled.
func (a *RoutedEventArgs) Handled() bool { return a.handled }

// MarkHandled marks the event handled. Later handlers that did not opt in
// to handled events are skipped.
func (a *RoutedEventArgs) MarkHandled() { a.handled = true }

// ResetHandled clears the handled flag.
func (a *RoutedEventArgs) ResetHandled() { a.handled = false }

// Phase returns the dispatch phase of the current or last raise.
func (a *RoutedEventArgs) Phase() Phase { return a.phase }

// Invoking reports whether a handler is currently running with these args.
func (a *RoutedEventArgs) Invoking() bool { return a.invoking }

// invokeHandler runs h with the invoking flag set. The flag is cleared even
// if h panics.
func (a *RoutedEventArgs) invokeHandler(h *Handler, sender Target, args EventArgs) error {
	a.invoking = true
	defer func() { a.invoking = false }()
	return h.invoke(sender, args)
}
