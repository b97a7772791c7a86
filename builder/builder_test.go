package builder

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/init4tech/signet-node/sim"
)

// fakeEnv and pendingWorker exercise the round/builder loop logic
// against the Worker/Env interfaces directly, without requiring a real
// EVM state — the same narrow-interface test style bundle/send_driver.go's
// snapshotState interface enables.
type fakeEnv struct {
	scores    map[string]int64
	fail      map[string]bool
	accepted  []string
	acceptErr error
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{scores: map[string]int64{}, fail: map[string]bool{}}
}

func (e *fakeEnv) NewWorker() (Worker, error) { return &pendingWorker{env: e}, nil }

func (e *fakeEnv) Accept(w Worker, outcome *sim.SimulatedItem) error {
	if e.acceptErr != nil {
		return e.acceptErr
	}
	e.accepted = append(e.accepted, outcome.Item.Identifier())
	return nil
}

func (e *fakeEnv) BlockNumber() uint64 { return 1 }
func (e *fakeEnv) Basefee() uint64     { return 0 }

// pendingWorker resolves its outcome lazily against the env's canned
// scores, since NewWorker doesn't know which item it will simulate
// until Execute is called.
type pendingWorker struct{ env *fakeEnv }

func (w *pendingWorker) Execute(item sim.Item, deadline time.Time) (*sim.SimulatedItem, error) {
	id := item.Identifier()
	if w.env.fail[id] {
		return nil, errors.New("simulated failure")
	}
	return &sim.SimulatedItem{
		Score:   *uint256.NewInt(uint64(w.env.scores[id])),
		GasUsed: 21000,
		Item:    item,
	}, nil
}

// testTx returns a distinct transaction (and its item/identifier) for
// nonce, used purely to get a stable, distinct sim.Item.Identifier()
// per candidate.
func testTx(nonce uint64) (sim.Item, string) {
	tx := gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    nonce,
		GasPrice: big.NewInt(1),
		Gas:      21000,
		Value:    big.NewInt(0),
	})
	item := sim.NewTxItem(tx)
	return item, item.Identifier()
}

func TestSimRoundPicksHighestScore(t *testing.T) {
	env := newFakeEnv()
	itemA, idA := testTx(1)
	itemB, idB := testTx(2)
	itemC, idC := testTx(3)
	env.scores[idA] = 10
	env.scores[idB] = 50
	env.scores[idC] = 30

	items := []sim.ScoredItem{
		{Score: *uint256.NewInt(10), Item: itemA},
		{Score: *uint256.NewInt(50), Item: itemB},
		{Score: *uint256.NewInt(30), Item: itemC},
	}

	result, err := SimRound(context.Background(), env, items, time.Now().Add(time.Second), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatalf("expected a winning result")
	}
	if result.outcome.Item.Identifier() != idB {
		t.Fatalf("expected the highest-scoring item to win, got %s", result.outcome.Item.Identifier())
	}
}

func TestSimRoundSkipsFailedCandidates(t *testing.T) {
	env := newFakeEnv()
	itemA, idA := testTx(1)
	itemB, idB := testTx(2)
	env.scores[idA] = 10
	env.scores[idB] = 50
	env.fail[idB] = true

	items := []sim.ScoredItem{
		{Score: *uint256.NewInt(10), Item: itemA},
		{Score: *uint256.NewInt(50), Item: itemB},
	}

	result, err := SimRound(context.Background(), env, items, time.Now().Add(time.Second), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.outcome.Item.Identifier() != idA {
		t.Fatalf("expected the only succeeding item to win once the other fails, got %+v", result)
	}
}

func TestSimRoundReturnsNilWhenAllFail(t *testing.T) {
	env := newFakeEnv()
	item, id := testTx(1)
	env.fail[id] = true
	items := []sim.ScoredItem{{Score: *uint256.NewInt(10), Item: item}}

	result, err := SimRound(context.Background(), env, items, time.Now().Add(time.Second), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected no winner, got %+v", result)
	}
}

func TestIsBetterTieBreaksOnIdentifier(t *testing.T) {
	s1 := uint256.NewInt(100)
	s2 := uint256.NewInt(100)
	if !isBetter(s1, s2, "aaa", "bbb") {
		t.Fatalf("expected the lexicographically smaller id to win a tie")
	}
	if isBetter(s1, s2, "bbb", "aaa") {
		t.Fatalf("expected the lexicographically larger id to lose a tie")
	}
}

func TestBuilderAcceptsRoundWinners(t *testing.T) {
	env := newFakeEnv()
	cache := sim.NewWithCapacity(10)

	itemA, idA := testTx(1)
	itemB, idB := testTx(2)
	env.scores[idA] = 10
	env.scores[idB] = 20

	cache.AddItem(itemA, 0)
	cache.AddItem(itemB, 0)

	b := New(env, cache, Config{RoundItems: 10, MaxConcurrency: 4, SimSleep: time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	accepted, err := b.Build(ctx, time.Now().Add(50*time.Millisecond))
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("unexpected error: %v", err)
	}
	if accepted != 2 {
		t.Fatalf("expected both candidates accepted, got %d (env saw %v)", accepted, env.accepted)
	}
	if !cache.IsEmpty() {
		t.Fatalf("expected cache to be drained of accepted items")
	}
}
