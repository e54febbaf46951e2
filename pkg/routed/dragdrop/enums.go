package dragdrop

import (
	"strings"

	"github.com/randalmurphal/routed/pkg/routed"
)

// DragAction tells the drag loop what to do after a QueryContinueDrag.
type DragAction int

const (
	// Continue keeps dragging.
	Continue DragAction = iota
	// Drop ends the drag with a drop on the current target.
	Drop
	// Cancel ends the drag without a drop.
	Cancel
)

// String returns the action name.
func (a DragAction) String() string {
	switch a {
	case Continue:
		return "Continue"
	case Drop:
		return "Drop"
	case Cancel:
		return "Cancel"
	default:
		return "DragAction(invalid)"
	}
}

// Valid reports whether a is a declared action.
func (a DragAction) Valid() bool {
	return a >= Continue && a <= Cancel
}

// DragDropKeyStates is the set of mouse buttons and modifier keys held
// during a drag.
type DragDropKeyStates uint8

const (
	LeftMouseButton   DragDropKeyStates = 1
	RightMouseButton  DragDropKeyStates = 2
	ShiftKey          DragDropKeyStates = 4
	ControlKey        DragDropKeyStates = 8
	MiddleMouseButton DragDropKeyStates = 16
	AltKey            DragDropKeyStates = 32

	// KeyStatesNone means nothing is held.
	KeyStatesNone DragDropKeyStates = 0

	mouseButtons = LeftMouseButton | RightMouseButton | MiddleMouseButton
	allKeyStates = mouseButtons | ShiftKey | ControlKey | AltKey
)

// Valid reports whether k holds only declared flags.
func (k DragDropKeyStates) Valid() bool {
	return k&^allKeyStates == 0
}

// Has reports whether every flag of flag is set in k.
func (k DragDropKeyStates) Has(flag DragDropKeyStates) bool {
	return k&flag == flag
}

// MouseButtonsDown returns how many mouse buttons are held.
func (k DragDropKeyStates) MouseButtonsDown() int {
	n := 0
	for _, b := range []DragDropKeyStates{LeftMouseButton, RightMouseButton, MiddleMouseButton} {
		if k.Has(b) {
			n++
		}
	}
	return n
}

var keyStateNames = []struct {
	flag DragDropKeyStates
	name string
}{
	{LeftMouseButton, "LeftMouseButton"},
	{RightMouseButton, "RightMouseButton"},
	{ShiftKey, "ShiftKey"},
	{ControlKey, "ControlKey"},
	{MiddleMouseButton, "MiddleMouseButton"},
	{AltKey, "AltKey"},
}

// String returns the set flags joined with "|", or "None".
func (k DragDropKeyStates) String() string {
	if k == KeyStatesNone {
		return "None"
	}
	var parts []string
	for _, f := range keyStateNames {
		if k.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	if !k.Valid() {
		parts = append(parts, "invalid")
	}
	return strings.Join(parts, "|")
}

// DragDropEffects is the set of effects a drop may have.
type DragDropEffects uint32

const (
	None   DragDropEffects = 0
	Copy   DragDropEffects = 1
	Move   DragDropEffects = 2
	Link   DragDropEffects = 4
	Scroll DragDropEffects = 0x80000000
	All    DragDropEffects = Copy | Move | Scroll

	allEffects = Copy | Move | Link | Scroll
)

// Valid reports whether e holds only declared flags.
func (e DragDropEffects) Valid() bool {
	return e&^allEffects == 0
}

// Has reports whether every flag of flag is set in e.
func (e DragDropEffects) Has(flag DragDropEffects) bool {
	return e&flag == flag
}

var effectNames = []struct {
	flag DragDropEffects
	name string
}{
	{Copy, "Copy"},
	{Move, "Move"},
	{Link, "Link"},
	{Scroll, "Scroll"},
}

// String returns the set flags joined with "|", or "None".
func (e DragDropEffects) String() string {
	if e == None {
		return "None"
	}
	var parts []string
	for _, f := range effectNames {
		if e.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	if !e.Valid() {
		parts = append(parts, "invalid")
	}
	return strings.Join(parts, "|")
}

func checkAction(a DragAction) error {
	if !a.Valid() {
		return &routed.EnumValueError{Enum: "DragAction", Value: int64(a)}
	}
	return nil
}

func checkKeyStates(k DragDropKeyStates) error {
	if !k.Valid() {
		return &routed.EnumValueError{Enum: "DragDropKeyStates", Value: int64(k)}
	}
	return nil
}

func checkEffects(e DragDropEffects) error {
	if !e.Valid() {
		return &routed.EnumValueError{Enum: "DragDropEffects", Value: int64(e)}
	}
	return nil
}
