package dragdrop

import (
	"context"
	"errors"

	"github.com/randalmurphal/routed/pkg/routed"
)

// ErrSessionDone is returned by Step after the drag dropped or cancelled.
var ErrSessionDone = errors.New("drag session is done")

// InputState is one pointer sample during a drag.
type InputState struct {
	// Over is the node under the pointer, or nil outside every drop target.
	Over          routed.Target
	Position      Point
	KeyStates     DragDropKeyStates
	EscapePressed bool
}

// Result is the outcome of a finished drag.
type Result struct {
	// Action is Drop or Cancel.
	Action DragAction
	// Effects is what the drop target did with the data, limited to the
	// allowed effects. None when cancelled or dropped outside a target.
	Effects DragDropEffects
	// Target is the node that received the Drop, if any.
	Target routed.Target
}

// Session drives one drag from a source node. Each Step asks the source
// whether to continue, moves enter/over/leave notifications between drop
// targets and lets the source give feedback. A Session is not safe for
// concurrent use.
type Session struct {
	ev      *Events
	source  routed.Target
	data    any
	allowed DragDropEffects

	over    routed.Target
	effects DragDropEffects
	done    bool
	result  Result
}

// NewSession starts a drag of data from source.
func (ev *Events) NewSession(source routed.Target, data any, allowed DragDropEffects) (*Session, error) {
	if source == nil {
		return nil, &routed.ArgumentError{Op: "NewSession", Arg: "source"}
	}
	if err := checkEffects(allowed); err != nil {
		return nil, err
	}
	return &Session{ev: ev, source: source, data: data, allowed: allowed}, nil
}

// Over returns the drop target the pointer is currently over.
func (s *Session) Over() routed.Target { return s.over }

// Effects returns the effects the current drop target accepts.
func (s *Session) Effects() DragDropEffects { return s.effects }

// Done reports whether the drag has finished.
func (s *Session) Done() bool { return s.done }

// Result returns the outcome once Done reports true.
func (s *Session) Result() Result { return s.result }

// Step processes one input sample and reports whether the drag finished.
// A Drop goes to the target entered by an earlier step. A handler error
// ends the drag as cancelled.
func (s *Session) Step(ctx context.Context, in InputState) (bool, error) {
	if s.done {
		return true, ErrSessionDone
	}

	action, err := s.ev.RaiseQueryContinueDrag(ctx, s.source, in.EscapePressed, in.KeyStates)
	if err != nil {
		return s.fail(err)
	}

	switch action {
	case Cancel:
		if s.over != nil {
			if err := s.raise(ctx, s.ev.RaiseDragLeave, s.over, in); err != nil {
				return s.fail(err)
			}
		}
		s.finish(Result{Action: Cancel})
		return true, nil

	case Drop:
		if s.over == nil {
			s.finish(Result{Action: Drop})
			return true, nil
		}
		args, err := s.args(in)
		if err != nil {
			return s.fail(err)
		}
		if err := s.ev.RaiseDrop(ctx, s.over, args); err != nil {
			return s.fail(err)
		}
		s.finish(Result{Action: Drop, Effects: args.Effects() & s.allowed, Target: s.over})
		return true, nil
	}

	if in.Over != s.over {
		if s.over != nil {
			if err := s.raise(ctx, s.ev.RaiseDragLeave, s.over, in); err != nil {
				return s.fail(err)
			}
		}
		s.over = in.Over
		s.effects = None
		if s.over != nil {
			if err := s.raise(ctx, s.ev.RaiseDragEnter, s.over, in); err != nil {
				return s.fail(err)
			}
		}
	} else if s.over != nil {
		if err := s.raise(ctx, s.ev.RaiseDragOver, s.over, in); err != nil {
			return s.fail(err)
		}
	}

	if _, err := s.ev.RaiseGiveFeedback(ctx, s.source, s.effects); err != nil {
		return s.fail(err)
	}
	return false, nil
}

// Run calls Step for every sample from next until the drag finishes. A
// drag whose input ends early is cancelled.
func (s *Session) Run(ctx context.Context, next func() (InputState, bool)) (Result, error) {
	for !s.done {
		if err := ctx.Err(); err != nil {
			return s.result, err
		}
		in, ok := next()
		if !ok {
			in = InputState{Over: s.over, EscapePressed: true}
		}
		if _, err := s.Step(ctx, in); err != nil {
			return s.result, err
		}
	}
	return s.result, nil
}

// raise sends a DragEnter, DragOver or DragLeave pair to target and keeps
// the effects the target chose.
func (s *Session) raise(ctx context.Context, fn func(context.Context, routed.Target, *DragEventArgs) error, target routed.Target, in InputState) error {
	args, err := s.args(in)
	if err != nil {
		return err
	}
	if err := fn(ctx, target, args); err != nil {
		return err
	}
	s.effects = args.Effects() & s.allowed
	return nil
}

func (s *Session) args(in InputState) (*DragEventArgs, error) {
	return NewDragEventArgs(s.data, in.KeyStates, s.allowed, in.Position)
}

func (s *Session) finish(r Result) {
	s.done = true
	s.over = nil
	s.effects = None
	s.result = r
}

func (s *Session) fail(err error) (bool, error) {
	s.finish(Result{Action: Cancel})
	return true, err
}
