package market

import (
	"bytes"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// fillKey indexes AggregateFills by chain, recipient, and token.
type fillKey struct {
	ChainID   uint64
	Recipient common.Address
	Token     common.Address
}

// AggregateFills is the running ledger of currently-unreserved filled
// outputs. Mirrors the mutex-guarded map idiom in preconf/fifo_tx_set.go,
// since it is mutated from a single builder thread between rounds but
// read from cloned snapshots handed to simulation workers.
type AggregateFills struct {
	mu      sync.Mutex
	amounts map[fillKey]*uint256.Int
}

// NewAggregateFills returns an empty ledger.
func NewAggregateFills() *AggregateFills {
	return &AggregateFills{amounts: make(map[fillKey]*uint256.Int)}
}

// AddFill increases each output recipient's credit for a Filled event
// observed on chainID.
func (f *AggregateFills) AddFill(chainID uint64, fill *Filled) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addLocked(chainID, fill)
}

func (f *AggregateFills) addLocked(chainID uint64, fill *Filled) {
	if f.amounts == nil {
		f.amounts = make(map[fillKey]*uint256.Int)
	}
	for _, out := range fill.Outputs {
		k := fillKey{ChainID: chainID, Recipient: out.Recipient, Token: out.Token}
		cur, ok := f.amounts[k]
		if !ok {
			f.amounts[k] = cloneAmount(out.Amount)
			continue
		}
		cur.Add(cur, out.Amount)
	}
}

// Clone returns a deep, independent copy, used to hand simulation
// workers their own snapshot without holding the ledger's lock across a
// simulation ("no locking across suspension points").
func (f *AggregateFills) Clone() *AggregateFills {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := NewAggregateFills()
	for k, v := range f.amounts {
		out.amounts[k] = cloneAmount(v)
	}
	return out
}

// CheckedRemoveRuTxEvents implements the two-pass check-then-commit
// primitive: first validates that self plus fillsProduced covers every
// output required by ordersInitiated, then commits both the
// fillsProduced credits and the orders' debits.
//
// On failure the receiver is left completely unmodified — the defining
// "all-or-nothing" property.
func (f *AggregateFills) CheckedRemoveRuTxEvents(fillsProduced *AggregateFills, ordersInitiated *AggregateOrders) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var produced map[fillKey]*uint256.Int
	if fillsProduced != nil {
		fillsProduced.mu.Lock()
		produced = fillsProduced.amounts
		fillsProduced.mu.Unlock()
	}

	required := ordersInitiated.requiredOutputs()

	// Pass 1: validate without mutating anything.
	for _, req := range required {
		available := new(uint256.Int)
		haveSelf := false
		if v, ok := f.amounts[req.key]; ok {
			available.Add(available, v)
			haveSelf = true
		}
		haveProduced := false
		if v, ok := produced[req.key]; ok {
			available.Add(available, v)
			haveProduced = true
		}
		if !haveSelf && !haveProduced {
			return newMissingAsset(req.key.ChainID, req.key.Token)
		}
		if available.Lt(req.amount) {
			return newInsufficientFill(req.key.ChainID, req.key.Token, req.key.Recipient, req.amount)
		}
	}

	// Pass 2: commit. Credit fillsProduced, then debit orders' outputs.
	if f.amounts == nil {
		f.amounts = make(map[fillKey]*uint256.Int)
	}
	for k, v := range produced {
		cur, ok := f.amounts[k]
		if !ok {
			f.amounts[k] = cloneAmount(v)
			continue
		}
		cur.Add(cur, v)
	}
	for _, req := range required {
		cur := f.amounts[req.key]
		cur.Sub(cur, req.amount)
	}
	return nil
}

// Deficit is one (chain, asset, recipient) obligation an order requires
// that self plus fillsProduced does not yet fully cover, along with how
// much is still missing.
type Deficit struct {
	ChainID   uint64
	Asset     common.Address
	Recipient common.Address
	Missing   *uint256.Int
}

// ReportDeficits computes, without mutating self or fillsProduced,
// every output ordersInitiated requires that is not yet fully covered.
// Used by the report-only call-bundle path to describe what fills would
// be required, instead of CheckedRemoveRuTxEvents's fail-and-abort
// behavior.
func (f *AggregateFills) ReportDeficits(fillsProduced *AggregateFills, ordersInitiated *AggregateOrders) []Deficit {
	f.mu.Lock()
	defer f.mu.Unlock()

	var produced map[fillKey]*uint256.Int
	if fillsProduced != nil {
		fillsProduced.mu.Lock()
		produced = fillsProduced.amounts
		fillsProduced.mu.Unlock()
	}

	var deficits []Deficit
	for _, req := range ordersInitiated.requiredOutputs() {
		available := new(uint256.Int)
		if v, ok := f.amounts[req.key]; ok {
			available.Add(available, v)
		}
		if v, ok := produced[req.key]; ok {
			available.Add(available, v)
		}
		if available.Lt(req.amount) {
			missing := new(uint256.Int).Sub(req.amount, available)
			deficits = append(deficits, Deficit{
				ChainID:   req.key.ChainID,
				Asset:     req.key.Token,
				Recipient: req.key.Recipient,
				Missing:   missing,
			})
		}
	}
	return deficits
}

// requiredOutput pairs a fillKey with the amount an order requires.
type requiredOutput struct {
	key    fillKey
	amount *uint256.Int
}

// requiredOutputs enumerates an AggregateOrders' output obligations in a
// deterministic order (sorted by chain, then token, then recipient) so
// repeated runs validate in the same sequence.
func (o *AggregateOrders) requiredOutputs() []requiredOutput {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]requiredOutput, 0, len(o.outputs))
	for k, v := range o.outputs {
		out = append(out, requiredOutput{key: fillKey(k), amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].key, out[j].key
		if a.ChainID != b.ChainID {
			return a.ChainID < b.ChainID
		}
		if a.Token != b.Token {
			return bytes.Compare(a.Token.Bytes(), b.Token.Bytes()) < 0
		}
		return bytes.Compare(a.Recipient.Bytes(), b.Recipient.Bytes()) < 0
	})
	return out
}
