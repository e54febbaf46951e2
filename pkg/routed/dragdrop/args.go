package dragdrop

import (
	"github.com/randalmurphal/routed/pkg/routed"
)

// QueryContinueDragEventArgs asks handlers whether a drag should go on.
// Unhandled, the action is decided from the escape key and the mouse
// buttons: Cancel on escape or when two or more buttons are down, Drop when
// none is down, Continue otherwise.
type QueryContinueDragEventArgs struct {
	routed.RoutedEventArgs
	escapePressed bool
	keyStates     DragDropKeyStates
	action        DragAction
}

// NewQueryContinueDragEventArgs creates args with action Continue.
func NewQueryContinueDragEventArgs(escapePressed bool, keyStates DragDropKeyStates) (*QueryContinueDragEventArgs, error) {
	if err := checkKeyStates(keyStates); err != nil {
		return nil, err
	}
	return &QueryContinueDragEventArgs{escapePressed: escapePressed, keyStates: keyStates}, nil
}

// EscapePressed reports whether escape was pressed since the last query.
func (a *QueryContinueDragEventArgs) EscapePressed() bool { return a.escapePressed }

// KeyStates returns the held buttons and modifier keys.
func (a *QueryContinueDragEventArgs) KeyStates() DragDropKeyStates { return a.keyStates }

// Action returns the decided action.
func (a *QueryContinueDragEventArgs) Action() DragAction { return a.action }

// SetAction decides the action. Handlers that set it usually also call
// MarkHandled so the default policy does not override it.
func (a *QueryContinueDragEventArgs) SetAction(action DragAction) error {
	if err := checkAction(action); err != nil {
		return err
	}
	a.action = action
	return nil
}

// OnDefault implements routed.DefaultHandler.
func (a *QueryContinueDragEventArgs) OnDefault(routed.Target) error {
	switch buttons := a.keyStates.MouseButtonsDown(); {
	case a.escapePressed || buttons >= 2:
		a.action = Cancel
	case buttons == 0:
		a.action = Drop
	default:
		a.action = Continue
	}
	return nil
}

// GiveFeedbackEventArgs lets the drag source show feedback for the current
// effects. Unhandled, the default cursors are used.
type GiveFeedbackEventArgs struct {
	routed.RoutedEventArgs
	effects           DragDropEffects
	useDefaultCursors bool
}

// NewGiveFeedbackEventArgs creates args for the given effects.
func NewGiveFeedbackEventArgs(effects DragDropEffects, useDefaultCursors bool) (*GiveFeedbackEventArgs, error) {
	if err := checkEffects(effects); err != nil {
		return nil, err
	}
	return &GiveFeedbackEventArgs{effects: effects, useDefaultCursors: useDefaultCursors}, nil
}

// Effects returns the effects the current target accepts.
func (a *GiveFeedbackEventArgs) Effects() DragDropEffects { return a.effects }

// UseDefaultCursors reports whether the default drag cursors are shown.
func (a *GiveFeedbackEventArgs) UseDefaultCursors() bool { return a.useDefaultCursors }

// SetUseDefaultCursors sets whether the default drag cursors are shown.
func (a *GiveFeedbackEventArgs) SetUseDefaultCursors(v bool) { a.useDefaultCursors = v }

// OnDefault implements routed.DefaultHandler.
func (a *GiveFeedbackEventArgs) OnDefault(routed.Target) error {
	a.useDefaultCursors = true
	return nil
}

// Point is a position in the coordinate space of the drag surface.
type Point struct {
	X, Y float64
}

// DragEventArgs is raised on drop targets during a drag.
// Targets report what they would do with the data through SetEffects.
type DragEventArgs struct {
	routed.RoutedEventArgs
	data           any
	keyStates      DragDropKeyStates
	allowedEffects DragDropEffects
	effects        DragDropEffects
	position       Point
}

// NewDragEventArgs creates args with Effects equal to allowed.
func NewDragEventArgs(data any, keyStates DragDropKeyStates, allowed DragDropEffects, position Point) (*DragEventArgs, error) {
	if err := checkKeyStates(keyStates); err != nil {
		return nil, err
	}
	if err := checkEffects(allowed); err != nil {
		return nil, err
	}
	return &DragEventArgs{
		data:           data,
		keyStates:      keyStates,
		allowedEffects: allowed,
		effects:        allowed,
		position:       position,
	}, nil
}

// Data returns the dragged data.
func (a *DragEventArgs) Data() any { return a.data }

// KeyStates returns the held buttons and modifier keys.
func (a *DragEventArgs) KeyStates() DragDropKeyStates { return a.keyStates }

// AllowedEffects returns the effects the drag source permits.
func (a *DragEventArgs) AllowedEffects() DragDropEffects { return a.allowedEffects }

// Effects returns the effects chosen by the target.
func (a *DragEventArgs) Effects() DragDropEffects { return a.effects }

// SetEffects sets the effects chosen by the target.
func (a *DragEventArgs) SetEffects(e DragDropEffects) error {
	if err := checkEffects(e); err != nil {
		return err
	}
	a.effects = e
	return nil
}

// Position returns the pointer position.
func (a *DragEventArgs) Position() Point { return a.position }

var (
	_ routed.DefaultHandler = (*QueryContinueDragEventArgs)(nil)
	_ routed.DefaultHandler = (*GiveFeedbackEventArgs)(nil)
	_ routed.EventArgs      = (*DragEventArgs)(nil)
)
