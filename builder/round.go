package builder

import (
	"context"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"golang.org/x/sync/semaphore"

	"github.com/init4tech/signet-node/sim"
)

// defaultMaxConcurrency bounds how many candidates a round simulates at
// once when the caller doesn't specify one.
const defaultMaxConcurrency = 8

// roundResult pairs a round's winning outcome with the Worker that
// produced it, so the caller can hand both to Env.Accept.
type roundResult struct {
	worker  Worker
	outcome *sim.SimulatedItem
}

// SimRound runs one simulation round: every candidate in items is
// executed concurrently (bounded by maxConcurrency, defaulting to
// defaultMaxConcurrency) against its own Worker copied from env, and the
// highest-scoring successful outcome is returned along with the Worker
// that produced it. Ties are broken toward the candidate with the
// lexicographically smaller identifier, so repeated rounds over an
// unchanged cache converge instead of oscillating. Returns a nil result
// if every candidate failed to simulate.
//
// Grounded on original_source/crates/sim/src/task.rs's BlockBuild::round
// and env/shared.rs's SharedSimEnv::sim_round concurrent-attempt
// pattern, adapted from tokio::spawn_blocking+select! to a
// semaphore-bounded goroutine pool since this package has no async
// runtime to reach for — the same bounded-worker-pool idiom the teacher
// uses golang.org/x/sync/semaphore for elsewhere.
func SimRound(ctx context.Context, env Env, items []sim.ScoredItem, deadline time.Time, maxConcurrency int) (*roundResult, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	if len(items) == 0 {
		return nil, nil
	}

	sem := semaphore.NewWeighted(int64(maxConcurrency))

	var mu sync.Mutex
	var best *roundResult
	var bestID string

	var wg sync.WaitGroup
	for _, cand := range items {
		cand := cand
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			worker, err := env.NewWorker()
			if err != nil {
				return
			}
			outcome, err := worker.Execute(cand.Item, deadline)
			if err != nil || outcome == nil {
				return
			}

			id := cand.Item.Identifier()
			mu.Lock()
			defer mu.Unlock()
			if best == nil || isBetter(&outcome.Score, &best.outcome.Score, id, bestID) {
				best = &roundResult{worker: worker, outcome: outcome}
				bestID = id
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil && best == nil {
		return nil, err
	}
	return best, nil
}

// isBetter reports whether candidate should replace current as the
// round's best outcome: strictly higher score wins outright; an equal
// score is broken toward the lexicographically smaller identifier, so
// repeated rounds over an unchanged cache converge on the same winner
// instead of oscillating between equally-scored candidates.
func isBetter(candidateScore, currentScore *uint256.Int, candID, currentID string) bool {
	if cmp := candidateScore.Cmp(currentScore); cmp != 0 {
		return cmp > 0
	}
	return candID < currentID
}
