package engine

import "fmt"

// EngineHaltedError is returned when the host interacts with an engine
// that has already terminated.
type EngineHaltedError struct{}

func (e *EngineHaltedError) Error() string {
	return "engine has halted"
}

// UnexpectedEventError is returned when a host event does not match the
// engine's suspension state.
type UnexpectedEventError struct {
	Event  string
	Status Status
}

func (e *UnexpectedEventError) Error() string {
	return fmt.Sprintf("event %q is not valid while engine is %s", e.Event, e.Status)
}

// InvalidChoiceError is returned when a selection is not among the
// offered labels, or no branch carries the selected label.
type InvalidChoiceError struct {
	Label string
	Line  int
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("line %d: no branch for choice label %q", e.Line, e.Label)
}

// RuntimeError wraps a failure while executing an instruction. Runtime
// errors halt the engine; skipping would desynchronize speaker and
// variable state from author intent.
type RuntimeError struct {
	Line int
	Err  error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
