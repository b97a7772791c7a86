package market

import (
	"bytes"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// inputKey indexes an order's rollup-side spend obligation by token
// only: Order.Input carries no chain id of its own (it is always spent
// on the rollup the order was submitted to), matching
// original_source/crates/types/src/agg (Input has no chain_id field).
type inputKey struct {
	Token common.Address
}

// AggregateOrders sums rollup-side
// input obligations by token, and destination-chain output
// requirements summed by (chain_id, token, recipient) — the latter
// sharing its key shape with AggregateFills so the two can be compared
// directly in CheckedRemoveRuTxEvents.
type AggregateOrders struct {
	mu      sync.Mutex
	inputs  map[inputKey]*uint256.Int
	outputs map[fillKey]*uint256.Int
}

// NewAggregateOrders returns an empty order aggregate.
func NewAggregateOrders() *AggregateOrders {
	return &AggregateOrders{
		inputs:  make(map[inputKey]*uint256.Int),
		outputs: make(map[fillKey]*uint256.Int),
	}
}

// Ingest folds one Order's inputs and outputs into the aggregate.
func (o *AggregateOrders) Ingest(order *Order) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.inputs == nil {
		o.inputs = make(map[inputKey]*uint256.Int)
	}
	if o.outputs == nil {
		o.outputs = make(map[fillKey]*uint256.Int)
	}

	for _, in := range order.Inputs {
		k := inputKey{Token: in.Token}
		cur, ok := o.inputs[k]
		if !ok {
			o.inputs[k] = cloneAmount(in.Amount)
			continue
		}
		cur.Add(cur, in.Amount)
	}

	for _, out := range order.Outputs {
		k := fillKey{ChainID: out.ChainID, Recipient: out.Recipient, Token: out.Token}
		cur, ok := o.outputs[k]
		if !ok {
			o.outputs[k] = cloneAmount(out.Amount)
			continue
		}
		cur.Add(cur, out.Amount)
	}
}

// TotalInputs returns the summed rollup-side spend obligation for token,
// across every ingested order.
func (o *AggregateOrders) TotalInputs(token common.Address) *uint256.Int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if v, ok := o.inputs[inputKey{Token: token}]; ok {
		return cloneAmount(v)
	}
	return uint256.NewInt(0)
}

// IsEmpty reports whether the aggregate has accumulated no obligations
// at all.
func (o *AggregateOrders) IsEmpty() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.inputs) == 0 && len(o.outputs) == 0
}

// OutputChainIDs returns every destination chain id this aggregate has
// accumulated outputs for, sorted ascending. Used by UnsignedFill to
// produce one SignedFill per destination chain, grounded on
// original_source/crates/zenith/src/orders/signing/fill.rs's
// AggregateOrders::output_chain_ids.
func (o *AggregateOrders) OutputChainIDs() []uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	seen := make(map[uint64]struct{})
	for k := range o.outputs {
		seen[k.ChainID] = struct{}{}
	}
	out := make([]uint64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// OutputsForChain returns the Outputs accumulated for chainID, in a
// deterministic order (sorted by token, then recipient). Used by
// UnsignedFill.SignFor to build the per-chain witness a SignedFill's
// permit covers.
func (o *AggregateOrders) OutputsForChain(chainID uint64) []Output {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []Output
	for k, v := range o.outputs {
		if k.ChainID != chainID {
			continue
		}
		out = append(out, Output{Token: k.Token, Amount: cloneAmount(v), Recipient: k.Recipient, ChainID: k.ChainID})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := bytes.Compare(a.Token.Bytes(), b.Token.Bytes()); c != 0 {
			return c < 0
		}
		return bytes.Compare(a.Recipient.Bytes(), b.Recipient.Bytes()) < 0
	})
	return out
}
