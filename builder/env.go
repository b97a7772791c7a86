// Package builder assembles a rollup block by repeatedly simulating the
// best candidates in a sim.Cache against copy-on-write views of a
// shared, committed EVM state, accepting the best-scoring outcome from
// each round until the block's deadline passes.
//
// Grounded on original_source/crates/sim/src/{task.rs,env/shared.rs} and
// on the environment/copy() COW idiom in miner/worker.go.
package builder

import (
	"time"

	"github.com/init4tech/signet-node/sim"
)

// Worker is a single speculative simulation attempt: a copy-on-write
// view of the block under construction that one candidate Item can be
// executed against without affecting any other concurrently-running
// Worker or the shared Env it was copied from.
type Worker interface {
	// Execute simulates item against this worker's private state,
	// returning the outcome's score and gas usage for round-winner
	// comparison. A non-nil error means item could not be included at
	// all and should be dropped rather than retried against this
	// worker.
	Execute(item sim.Item, deadline time.Time) (*sim.SimulatedItem, error)
}

// Env is the block builder's shared, committed state: the rollup state
// and header every simulation round copies from, and the only thing a
// round's winning Worker is ever merged back into.
type Env interface {
	// NewWorker returns a fresh COW copy of the committed state, ready
	// for one round's worth of concurrent simulation attempts.
	NewWorker() (Worker, error)
	// Accept merges w's outcome into the committed state, advancing the
	// block under construction. w must be a Worker this Env itself
	// produced via NewWorker.
	Accept(w Worker, outcome *sim.SimulatedItem) error
	// BlockNumber returns the rollup block number under construction.
	BlockNumber() uint64
	// Basefee returns the rollup block's base fee, used to score
	// candidate items before simulating them.
	Basefee() uint64
}
