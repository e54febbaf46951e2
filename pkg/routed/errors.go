package routed

import (
	"errors"
	"fmt"
)

// Sentinel errors for registration and handler management.
var (
	// ErrNilArgument indicates a required argument (event, handler, key,
	// type) was nil or empty.
	ErrNilArgument = errors.New("required argument is nil")

	// ErrInvalidHandlerType indicates a handler's shape does not match the
	// event's declared handler type and is not the universal shape.
	ErrInvalidHandlerType = errors.New("handler type does not match event")

	// ErrDuplicateRegistration indicates a name is already registered for
	// the same owner type.
	ErrDuplicateRegistration = errors.New("duplicate routed event registration")

	// ErrInvalidEnumValue indicates an enum argument outside its declared range.
	ErrInvalidEnumValue = errors.New("enum value out of range")

	// ErrForeignObject indicates an event, key or type created by a
	// different Manager or type registry.
	ErrForeignObject = errors.New("object belongs to another manager")
)

// Sentinel errors for dispatch.
var (
	// ErrTreeLoop indicates route building exceeded the maximum route
	// length, which means the routing-parent chain has a cycle.
	ErrTreeLoop = errors.New("routing parent chain exceeds maximum route length")

	// ErrDispatchInProgress indicates the args were mutated or reused while
	// one of their handlers was running.
	ErrDispatchInProgress = errors.New("event args are being dispatched")

	// ErrArgsTypeMismatch indicates a typed handler received args of a
	// different type.
	ErrArgsTypeMismatch = errors.New("event args type mismatch")

	// ErrNoRoutedEvent indicates args were raised without a routed event.
	ErrNoRoutedEvent = errors.New("event args have no routed event")
)

// ArgumentError reports a nil or empty required argument.
type ArgumentError struct {
	// Op is the operation that rejected the argument.
	Op string
	// Arg is the argument name.
	Arg string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Arg, ErrNilArgument)
}

// Unwrap returns ErrNilArgument.
func (e *ArgumentError) Unwrap() error {
	return ErrNilArgument
}

func nilArg(op, arg string) error {
	return &ArgumentError{Op: op, Arg: arg}
}

// HandlerTypeError reports a handler whose shape is illegal for an event.
type HandlerTypeError struct {
	Event    string
	Required HandlerType
	Actual   HandlerType
}

// Error implements the error interface.
func (e *HandlerTypeError) Error() string {
	return fmt.Sprintf("event %s requires %s, handler is %s: %v", e.Event, e.Required, e.Actual, ErrInvalidHandlerType)
}

// Unwrap returns ErrInvalidHandlerType.
func (e *HandlerTypeError) Unwrap() error {
	return ErrInvalidHandlerType
}

// DuplicateRegistrationError reports a second registration of a name for
// the same owner type.
type DuplicateRegistrationError struct {
	Name  string
	Owner string
}

// Error implements the error interface.
func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Owner, e.Name, ErrDuplicateRegistration)
}

// Unwrap returns ErrDuplicateRegistration.
func (e *DuplicateRegistrationError) Unwrap() error {
	return ErrDuplicateRegistration
}

// EnumValueError reports an enum argument outside its declared range.
type EnumValueError struct {
	// Enum is the enum type name, e.g. "RoutingStrategy".
	Enum string
	// Value is the rejected raw value.
	Value int64
}

// Error implements the error interface.
func (e *EnumValueError) Error() string {
	return fmt.Sprintf("%s(%d): %v", e.Enum, e.Value, ErrInvalidEnumValue)
}

// Unwrap returns ErrInvalidEnumValue.
func (e *EnumValueError) Unwrap() error {
	return ErrInvalidEnumValue
}

// HandlerError wraps an error returned by a class, instance or default
// handler. The route walk stops at the first HandlerError.
type HandlerError struct {
	// Event is the routed event being dispatched.
	Event *RoutedEvent
	// Target is the route node whose handler failed.
	Target Target
	// Err is the handler's error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler for %s on %s: %v", e.Event, targetName(e.Target), e.Err)
}

// Unwrap returns the handler's error for errors.Is/As support.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
