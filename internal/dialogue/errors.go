package dialogue

import "fmt"

// Error is a coded dialogue failure surfaced to handler summaries.
type Error struct {
	code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Code identifies the error class in handler summaries.
func (e *Error) Code() string { return e.code }

var (
	// ErrNoActiveDialogue is returned for /cancel or text input without a session.
	ErrNoActiveDialogue = &Error{code: "NO_ACTIVE_DIALOGUE", msg: "dialogue: no active session"}
	// ErrAlreadyInDialogue is returned when /content is issued twice.
	ErrAlreadyInDialogue = &Error{code: "ALREADY_IN_DIALOGUE", msg: "dialogue: session already in progress"}
)

// InvalidStateError signals a transition the state machine does not define.
type InvalidStateError struct {
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("dialogue: no transition from state %q", e.State)
}

// Code identifies the error class in handler summaries.
func (e *InvalidStateError) Code() string { return "INVALID_STATE" }
