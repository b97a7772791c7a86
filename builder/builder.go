package builder

import (
	"context"
	"time"

	"github.com/holiman/uint256"

	"github.com/init4tech/signet-node/sim"
)

// Config controls how a Builder paces its simulation rounds.
type Config struct {
	// RoundItems bounds how many of the cache's best-scoring candidates
	// are attempted per round.
	RoundItems int
	// MaxConcurrency bounds how many candidates are simulated at once
	// within a single round.
	MaxConcurrency int
	// SimSleep is the pause between rounds once the cache holds nothing
	// left to try, so the builder doesn't spin while waiting for more
	// candidates to arrive.
	SimSleep time.Duration
}

// DefaultConfig mirrors the original implementation's round pacing
// (original_source/crates/sim/src/task.rs's SIM_SLEEP_MS).
func DefaultConfig() Config {
	return Config{RoundItems: 16, MaxConcurrency: defaultMaxConcurrency, SimSleep: 50 * time.Millisecond}
}

// Builder repeatedly simulates the best candidates in a sim.Cache
// against a shared Env until the deadline passes, accepting each
// round's winner into the block under construction before starting the
// next round.
//
// Grounded on original_source/crates/sim/src/task.rs's
// BlockBuild::{round,build}.
type Builder struct {
	env   Env
	cache *sim.Cache
	cfg   Config
}

// New returns a Builder drawing candidates from cache and committing
// round winners into env.
func New(env Env, cache *sim.Cache, cfg Config) *Builder {
	def := DefaultConfig()
	if cfg.RoundItems <= 0 {
		cfg.RoundItems = def.RoundItems
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = def.MaxConcurrency
	}
	if cfg.SimSleep <= 0 {
		cfg.SimSleep = def.SimSleep
	}
	return &Builder{env: env, cache: cache, cfg: cfg}
}

// Build runs simulation rounds until deadline passes or ctx is
// canceled, returning the number of items accepted into the block.
func (b *Builder) Build(ctx context.Context, deadline time.Time) (int, error) {
	accepted := 0
	for {
		if err := ctx.Err(); err != nil {
			return accepted, err
		}
		if !time.Now().Before(deadline) {
			return accepted, nil
		}

		candidates := b.cache.ReadBest(b.cfg.RoundItems)
		if len(candidates) == 0 {
			select {
			case <-ctx.Done():
				return accepted, ctx.Err()
			case <-time.After(b.cfg.SimSleep):
			}
			continue
		}

		roundStart := time.Now()
		result, err := SimRound(ctx, b.env, candidates, deadline, b.cfg.MaxConcurrency)
		MetricsRoundCost(roundStart)
		if err != nil {
			return accepted, err
		}
		if result == nil {
			MetricsRoundEmpty()
			// Every candidate this round failed to simulate (stale
			// nonce, insufficient balance, a bundle whose revert wasn't
			// allowed); drop them all so the next round doesn't retry
			// the same dead ends against a state that hasn't changed.
			for _, c := range candidates {
				b.cache.Remove(c.Score)
			}
			continue
		}

		if err := b.env.Accept(result.worker, result.outcome); err != nil {
			return accepted, err
		}
		b.cache.Remove(winningScore(candidates, result.outcome))
		accepted++
		MetricsRoundWinner()
		MetricsAccepted(accepted)
	}
}

// winningScore finds the cache score the accepted outcome's item was
// read under, so it can be removed from the cache now that it's in the
// block. Falls back to the zero score (a no-op remove) if the item
// somehow isn't among the round's candidates, which should never
// happen since SimRound only ever returns outcomes for items it was
// given.
func winningScore(candidates []sim.ScoredItem, outcome *sim.SimulatedItem) uint256.Int {
	id := outcome.Item.Identifier()
	for _, c := range candidates {
		if c.Item.Identifier() == id {
			return c.Score
		}
	}
	return uint256.Int{}
}
