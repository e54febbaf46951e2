package routed

import (
	"fmt"
	"reflect"
)

// HandlerType identifies a handler shape by the args type it accepts.
// The zero value is invalid. HandlerType is comparable.
type HandlerType struct {
	args reflect.Type
}

// HandlerTypeFor returns the shape of handlers that take args of type A.
func HandlerTypeFor[A EventArgs]() HandlerType {
	return HandlerType{args: reflect.TypeOf((*A)(nil)).Elem()}
}

// UniversalHandlerType is the shape accepted for every event: a handler
// taking the base *RoutedEventArgs.
var UniversalHandlerType = HandlerTypeFor[*RoutedEventArgs]()

// IsZero reports whether h is the invalid zero shape.
func (h HandlerType) IsZero() bool { return h.args == nil }

// ArgsType returns the args type the shape accepts.
func (h HandlerType) ArgsType() reflect.Type { return h.args }

// String returns the args type name.
func (h HandlerType) String() string {
	if h.args == nil {
		return "<invalid>"
	}
	return "handler(" + h.args.String() + ")"
}

// SignatureValidator decides whether a handler of shape actual may be
// attached to an event requiring shape required.
type SignatureValidator func(required, actual HandlerType) bool

// DefaultSignatureValidator accepts the exact shape and the universal shape.
func DefaultSignatureValidator(required, actual HandlerType) bool {
	return actual == required || actual == UniversalHandlerType
}

// Handler is a handler delegate with its shape resolved at construction.
// Handlers are compared by pointer when removed, so keep the *Handler
// returned by the constructor to remove it later.
type Handler struct {
	shape  HandlerType
	invoke func(sender Target, args EventArgs) error
}

// NewHandler creates a universal handler that sees the base args.
// Returns nil if fn is nil.
func NewHandler(fn func(sender Target, args *RoutedEventArgs) error) *Handler {
	if fn == nil {
		return nil
	}
	return &Handler{
		shape: UniversalHandlerType,
		invoke: func(sender Target, args EventArgs) error {
			return fn(sender, args.Routed())
		},
	}
}

// NewTypedHandler creates a handler for args of type A.
// Returns nil if fn is nil.
func NewTypedHandler[A EventArgs](fn func(sender Target, args A) error) *Handler {
	if fn == nil {
		return nil
	}
	return &Handler{
		shape: HandlerTypeFor[A](),
		invoke: func(sender Target, args EventArgs) error {
			typed, ok := args.(A)
			if !ok {
				return fmt.Errorf("%w: handler takes %s, got %T", ErrArgsTypeMismatch, reflect.TypeOf((*A)(nil)).Elem(), args)
			}
			return fn(sender, typed)
		},
	}
}

// NewHandlerOfType creates a handler with an explicit shape. It is meant
// for custom shapes checked by a custom SignatureValidator; fn receives the
// args untouched. Returns nil if fn is nil or shape is zero.
func NewHandlerOfType(shape HandlerType, fn func(sender Target, args EventArgs) error) *Handler {
	if fn == nil || shape.IsZero() {
		return nil
	}
	return &Handler{shape: shape, invoke: fn}
}

// Type returns the handler's shape.
func (h *Handler) Type() HandlerType { return h.shape }

// Invoke calls the handler.
func (h *Handler) Invoke(sender Target, args EventArgs) error {
	return h.invoke(sender, args)
}

// HandlerInfo is one entry of a handler list: the handler and whether it
// runs for events already marked handled.
type HandlerInfo struct {
	handler          *Handler
	handledEventsToo bool
}

// NewHandlerInfo pairs a handler with its handled-events-too flag.
func NewHandlerInfo(h *Handler, handledEventsToo bool) HandlerInfo {
	return HandlerInfo{handler: h, handledEventsToo: handledEventsToo}
}

// Handler returns the handler.
func (i HandlerInfo) Handler() *Handler { return i.handler }

// InvokeHandledEventsToo reports whether the handler runs after the event
// was marked handled.
func (i HandlerInfo) InvokeHandledEventsToo() bool { return i.handledEventsToo }

// shouldInvoke applies the handled rule.
func (i HandlerInfo) shouldInvoke(handled bool) bool {
	return !handled || i.handledEventsToo
}

func checkHandler(op string, validator SignatureValidator, e *RoutedEvent, h *Handler) error {
	if e == nil {
		return nilArg(op, "event")
	}
	if h == nil {
		return nilArg(op, "handler")
	}
	if !validator(e.handlerType, h.shape) {
		return &HandlerTypeError{Event: e.String(), Required: e.handlerType, Actual: h.shape}
	}
	return nil
}
