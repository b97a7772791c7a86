// Package extract decodes rollup-relevant events out of a host block's
// receipts and groups them per block. It is the first
// stage of the pipeline: host block -> Extracts -> system/user
// transaction synthesis (sys, evm) -> journal.
package extract

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/init4tech/signet-node/market"
)

// EventKind tags the variant carried by an Event, mirroring the Events
// enum in original_source/crates/extract/src/events.rs.
type EventKind int

const (
	KindEnter EventKind = iota
	KindEnterToken
	KindBlockSubmitted
	KindTransact
	KindFilled
)

// Enter is a native-asset bridge-in event (Passage::Enter).
type Enter struct {
	RollupChainID uint64
	Recipient     common.Address
	Amount        *common.Hash // big-endian 256-bit amount, see evm/sys for decode
}

// EnterToken is a token bridge-in event (Passage::EnterToken).
type EnterToken struct {
	RollupChainID uint64
	Token         common.Address
	Recipient     common.Address
	Amount        *common.Hash
}

// BlockSubmitted records a rollup block header submission (Zenith::BlockSubmitted).
type BlockSubmitted struct {
	RollupChainID uint64
	Sequencer     common.Address
	HostBlockNum  uint64
	GasLimit      uint64
}

// Transact is a host-initiated rollup call (Transactor::Transact).
type Transact struct {
	RollupChainID uint64
	Sender        common.Address
	To            common.Address
	Data          []byte
	GasLimit      uint64
	MaxFeePerGas  uint64
	Value         *common.Hash
}

// Filled is a RollupOrders::Filled event, already filtered down to the
// outputs targeting the configured rollup.
type Filled struct {
	Outputs []market.Output
}

// Event is the tagged variant over the five event kinds, carrying the
// host transaction hash and the receipt-local log index at which it
// appeared.
type Event struct {
	Kind     EventKind
	TxHash   common.Hash
	LogIndex uint
	Address  common.Address

	Enter          Enter
	EnterToken     EnterToken
	BlockSubmitted BlockSubmitted
	Transact       Transact
	Filled         Filled
}

// ExtractedEvent pairs a decoded Event with the index of the host
// transaction/receipt it came from within the block. Go has no borrow
// checker, so unlike the Rust original this holds a plain transaction
// index into the block rather than a reference with a tied lifetime;
// callers look the transaction/receipt up from the same host block they
// passed to Extract.
type ExtractedEvent struct {
	Event   Event
	TxIndex int
}
