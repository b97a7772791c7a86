package sys

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/init4tech/signet-node/evm"
	"github.com/init4tech/signet-node/extract"
)

type fakeState struct {
	balances map[common.Address]*uint256.Int
}

func newFakeState() *fakeState { return &fakeState{balances: map[common.Address]*uint256.Int{}} }

func (f *fakeState) AddBalance(addr common.Address, amount *uint256.Int) {
	cur, ok := f.balances[addr]
	if !ok {
		cur = uint256.NewInt(0)
		f.balances[addr] = cur
	}
	cur.Add(cur, amount)
}

func (f *fakeState) SubBalance(addr common.Address, amount *uint256.Int) bool {
	cur, ok := f.balances[addr]
	if !ok || cur.Lt(amount) {
		return false
	}
	cur.Sub(cur, amount)
	return true
}

func (f *fakeState) GetBalance(addr common.Address) *uint256.Int {
	if v, ok := f.balances[addr]; ok {
		return v
	}
	return uint256.NewInt(0)
}
func (f *fakeState) GetNonce(addr common.Address) uint64        { return 0 }
func (f *fakeState) SetNonce(addr common.Address, nonce uint64) {}

var _ evm.StateView = (*fakeState)(nil)

func TestMintNativeAppliesBalanceCredit(t *testing.T) {
	recipient := common.HexToAddress("0x01")
	e := &extract.ExtractedEvent{Event: extract.Event{
		TxHash: common.HexToHash("0xaa"), LogIndex: 3,
		Enter: extract.Enter{Recipient: recipient},
	}}
	mint := NewMintNative(1, 15, e, uint256.NewInt(500))

	state := newFakeState()
	mint.Apply(state)
	if got := state.GetBalance(recipient); got.Cmp(uint256.NewInt(500)) != 0 {
		t.Fatalf("expected balance 500, got %s", got)
	}

	receipt := mint.Receipt(0)
	if receipt.CumulativeGasUsed != MinTransactionGas {
		t.Fatalf("expected cumulative gas %d, got %d", MinTransactionGas, receipt.CumulativeGasUsed)
	}
	if len(receipt.Logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(receipt.Logs))
	}
}

func TestDebitUnusedGasRejectsOnInsufficientBalance(t *testing.T) {
	sender := common.HexToAddress("0x02")
	transact := &Transact{Sender: sender, GasLimit: 100_000, Value: uint256.NewInt(0)}

	state := newFakeState()
	state.AddBalance(sender, uint256.NewInt(10))

	err := transact.DebitUnusedGas(state, big.NewInt(1), 0)
	if err != ErrInsufficientGasRefund {
		t.Fatalf("expected ErrInsufficientGasRefund, got %v", err)
	}
}

func TestDebitUnusedGasSucceeds(t *testing.T) {
	sender := common.HexToAddress("0x03")
	transact := &Transact{Sender: sender, GasLimit: 100_000, Value: uint256.NewInt(0)}

	state := newFakeState()
	state.AddBalance(sender, uint256.NewInt(1_000_000))

	if err := transact.DebitUnusedGas(state, big.NewInt(1), 50_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := state.GetBalance(sender); got.Cmp(uint256.NewInt(950_000)) != 0 {
		t.Fatalf("expected remaining balance 950000, got %s", got)
	}
}
