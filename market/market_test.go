package market

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func addr(b byte) common.Address {
	var a common.Address
	a[19] = b
	return a
}

func TestCheckedRemoveCommitsOnSuccess(t *testing.T) {
	weth := addr(1)
	recipient := addr(2)
	const hostChain = 1

	order := &Order{
		Inputs: []Input{{Token: addr(3), Amount: uint256.NewInt(1000)}},
		Outputs: []Output{
			{Token: weth, Amount: uint256.NewInt(1000), Recipient: recipient, ChainID: hostChain},
		},
	}
	agg := NewAggregateOrders()
	agg.Ingest(order)

	fillsProduced := NewAggregateFills()
	fillsProduced.AddFill(hostChain, &Filled{Outputs: []Output{
		{Token: weth, Amount: uint256.NewInt(1000), Recipient: recipient, ChainID: hostChain},
	}})

	self := NewAggregateFills()
	if err := self.CheckedRemoveRuTxEvents(fillsProduced, agg); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	// After commit: self should have credited then fully debited back to zero.
	key := fillKey{ChainID: hostChain, Recipient: recipient, Token: weth}
	got := self.amounts[key]
	if got == nil || !got.IsZero() {
		t.Fatalf("expected zero balance after matched credit/debit, got %v", got)
	}
}

func TestCheckedRemoveFailsAndLeavesUnchanged(t *testing.T) {
	weth := addr(1)
	recipient := addr(2)
	const hostChain = 1

	order := &Order{
		Outputs: []Output{
			{Token: weth, Amount: uint256.NewInt(1000), Recipient: recipient, ChainID: hostChain},
		},
	}
	agg := NewAggregateOrders()
	agg.Ingest(order)

	// Fill amount is short by 1 (scenario E: insufficient fill).
	fillsProduced := NewAggregateFills()
	fillsProduced.AddFill(hostChain, &Filled{Outputs: []Output{
		{Token: weth, Amount: uint256.NewInt(999), Recipient: recipient, ChainID: hostChain},
	}})

	self := NewAggregateFills()
	self.AddFill(hostChain, &Filled{Outputs: []Output{
		{Token: weth, Amount: uint256.NewInt(0), Recipient: recipient, ChainID: hostChain},
	}})
	before := self.Clone()

	err := self.CheckedRemoveRuTxEvents(fillsProduced, agg)
	if err == nil {
		t.Fatalf("expected InsufficientFill error")
	}
	me, ok := err.(*MarketError)
	if !ok || me.Kind != InsufficientFill {
		t.Fatalf("expected InsufficientFill, got %v", err)
	}

	key := fillKey{ChainID: hostChain, Recipient: recipient, Token: weth}
	if !self.amounts[key].Eq(before.amounts[key]) {
		t.Fatalf("AggregateFills must be unchanged on failure")
	}
}

func TestMissingAsset(t *testing.T) {
	weth := addr(1)
	recipient := addr(2)
	const hostChain = 1

	order := &Order{
		Outputs: []Output{
			{Token: weth, Amount: uint256.NewInt(1), Recipient: recipient, ChainID: hostChain},
		},
	}
	agg := NewAggregateOrders()
	agg.Ingest(order)

	self := NewAggregateFills()
	err := self.CheckedRemoveRuTxEvents(NewAggregateFills(), agg)
	me, ok := err.(*MarketError)
	if !ok || me.Kind != MissingAsset {
		t.Fatalf("expected MissingAsset, got %v", err)
	}
}
