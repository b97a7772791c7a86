package evm

import (
	"errors"
	"time"
)

// ErrTimeLimitExceeded is returned by TimeLimit.Check once its deadline
// has passed. A full node's interpreter halts execution at the next
// opcode boundary when its per-opcode hook sees this error, the same
// way a context deadline aborts a blocking call.
var ErrTimeLimitExceeded = errors.New("evm: simulation time limit exceeded")

// TimeLimit halts EVM execution at the next opcode boundary once a
// deadline passes. A full node attaches it alongside OrderDetector at
// the interpreter layer (vm.Config.Tracer's OnOpcode hook calling
// Check), the same wiring boundary documented for OrderDetector in
// driver.go.
//
// Grounded on spec.md §4.7/§5's "TimeLimit(deadline-now) inspector" and
// the per-opcode cancellation check it requires.
type TimeLimit struct {
	deadline time.Time
}

// NewTimeLimit returns a TimeLimit that expires at deadline.
func NewTimeLimit(deadline time.Time) *TimeLimit {
	return &TimeLimit{deadline: deadline}
}

// Expired reports whether the deadline has passed.
func (t *TimeLimit) Expired() bool {
	return !time.Now().Before(t.deadline)
}

// Remaining returns the time left until the deadline, or zero if it has
// already passed.
func (t *TimeLimit) Remaining() time.Duration {
	d := time.Until(t.deadline)
	if d < 0 {
		return 0
	}
	return d
}

// Check is the interpreter's per-opcode hook's entire job: return a
// non-nil error once the deadline passes, so execution halts instead of
// running past its round's budget.
func (t *TimeLimit) Check() error {
	if t.Expired() {
		return ErrTimeLimitExceeded
	}
	return nil
}
