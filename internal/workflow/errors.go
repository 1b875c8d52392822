package workflow

import (
	"fmt"
	"time"
)

// ValidationError means the draft is incomplete or invalid. It blocks
// submission and is never propagated to the transport.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// InvalidStateError means a transition was invoked outside its legal state.
// The presentation layer should make this unreachable by honoring the
// controller's exposed state, but the controller fails loudly rather than
// corrupt state.
type InvalidStateError struct {
	Op     string
	State  State
	Reason string
}

func (e *InvalidStateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid state: cannot %s in state %q: %s", e.Op, e.State, e.Reason)
	}
	return fmt.Sprintf("invalid state: cannot %s in state %q", e.Op, e.State)
}

// TimeoutError means a transport call exceeded the controller's bounded
// wait. It behaves exactly like a transport failure: the workflow returns
// to Initial with the draft intact.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Op, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}
