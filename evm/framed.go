// Package evm executes rollup transactions against a state view and
// detects in-EVM Order/Filled events at call-frame granularity, the way
// core/vm.EVMLogger observes opcodes during interpretation.
package evm

// Framed is a call-frame-scoped event log. Events pushed between
// EnterFrame and a matching ExitFrame survive; events pushed before a
// RevertFrame are discarded, mirroring how the EVM discards logs emitted
// by a reverted call.
//
// Grounded on original_source/crates/evm/src/orders/framed.rs.
type Framed[T any] struct {
	events          []T
	frameBoundaries []int
}

// NewFramed returns an empty Framed with the given initial capacity.
func NewFramed[T any](capacity int) *Framed[T] {
	return &Framed[T]{events: make([]T, 0, capacity)}
}

// Len returns the number of events recorded, including ones that may yet
// be discarded by a later RevertFrame.
func (f *Framed[T]) Len() int { return len(f.events) }

// IsEmpty reports whether no events have been recorded.
func (f *Framed[T]) IsEmpty() bool { return len(f.events) == 0 }

// Events returns the events recorded so far. The slice is owned by
// Framed and must not be retained past the next mutating call.
func (f *Framed[T]) Events() []T { return f.events }

// EnterFrame records a new frame boundary at the current event count.
func (f *Framed[T]) EnterFrame() {
	f.frameBoundaries = append(f.frameBoundaries, len(f.events))
}

// RevertFrame discards every event recorded since the matching
// EnterFrame. Panics if there is no open frame, matching the Rust
// original's unwrap-on-empty-stack behavior: a revert with no open frame
// is a driver bug, not a recoverable condition.
func (f *Framed[T]) RevertFrame() {
	n := len(f.frameBoundaries)
	if n == 0 {
		panic("evm: RevertFrame called with no open frame")
	}
	boundary := f.frameBoundaries[n-1]
	f.frameBoundaries = f.frameBoundaries[:n-1]
	f.events = f.events[:boundary]
}

// ExitFrame closes the current frame without discarding anything.
func (f *Framed[T]) ExitFrame() {
	n := len(f.frameBoundaries)
	if n == 0 {
		panic("evm: ExitFrame called with no open frame")
	}
	f.frameBoundaries = f.frameBoundaries[:n-1]
}

// Add appends an event to the currently open frame (or to the top level
// if no frame is open).
func (f *Framed[T]) Add(event T) {
	f.events = append(f.events, event)
}

// IsComplete reports whether every opened frame has since been exited or
// reverted. A successfully completed transaction must leave this true.
func (f *Framed[T]) IsComplete() bool { return len(f.frameBoundaries) == 0 }
