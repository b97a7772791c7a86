// Package bundle implements the two transaction-bundle shapes simulated
// against the rollup EVM: a report-only call-simulation variant served
// over signet_callBundle, and a strict block-building variant enforced
// while constructing a sealed block.
//
// Grounded on original_source/crates/bundle/src/{lib.rs,call/*,send/*}.
package bundle

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/init4tech/signet-node/signing"
)

// CallBundle is the signet_callBundle request: simulate txs against a
// chosen (possibly overridden) block environment and report what
// happened, without enforcing any bundle rules.
//
// Grounded on original_source/crates/bundle/src/call/ty.rs (not
// retrieved; reconstructed from call/trevm.rs's fill_block_env and the
// flashbots eth_callBundle request shape it extends).
type CallBundle struct {
	Txs               [][]byte
	BlockNumber       uint64
	StateBlockNumber  BlockNumberOrTag
	Coinbase          *common.Address
	Timestamp         *uint64
	GasLimit          *uint64
	Difficulty        *big.Int
	BaseFee           *big.Int
	TimeoutMs         *uint64
}

// BlockNumberOrTag is either a concrete block number or one of the
// "latest"/"pending" tags used to select the simulation's base state.
type BlockNumberOrTag struct {
	Number *uint64
	Tag    string
}

// AsNumber returns the concrete block number, or false if this value is
// a tag rather than a number.
func (b BlockNumberOrTag) AsNumber() (uint64, bool) {
	if b.Number == nil {
		return 0, false
	}
	return *b.Number, true
}

// FillBlockEnv overrides env's fields with any explicit overrides this
// bundle carries, leaving env's existing values where the bundle is
// silent. Mirrors call/trevm.rs's Block::fill_block_env.
func (c *CallBundle) FillBlockEnv(env *BlockEnv) {
	if n, ok := c.StateBlockNumber.AsNumber(); ok {
		env.Number = n
	}
	if c.Coinbase != nil {
		env.Coinbase = *c.Coinbase
	}
	if c.Timestamp != nil {
		env.Timestamp = *c.Timestamp
	}
	if c.GasLimit != nil {
		env.GasLimit = *c.GasLimit
	}
	if c.Difficulty != nil {
		env.Difficulty = new(big.Int).Set(c.Difficulty)
	}
	if c.BaseFee != nil {
		env.BaseFee = new(big.Int).Set(c.BaseFee)
	}
}

// BlockEnv is the minimal block context a bundle simulation runs
// against, populated from the chain's current header and then
// overridden by CallBundle.FillBlockEnv.
type BlockEnv struct {
	Number     uint64
	Coinbase   common.Address
	Timestamp  uint64
	GasLimit   uint64
	Difficulty *big.Int
	BaseFee    *big.Int
}

// TxResult is one transaction's outcome within a CallBundleResponse.
type TxResult struct {
	TxHash      common.Hash
	GasUsed     uint64
	GasFees     *big.Int
	FromAddress common.Address
	ToAddress   *common.Address
	Value       *big.Int
	Error       string
	Revert      []byte
}

// CallBundleResponse is the signet_callBundle response: the standard
// flashbots-style coinbase/gas accounting, plus the fills that would be
// required to make this bundle valid on Signet.
type CallBundleResponse struct {
	BundleHash      common.Hash
	CoinbaseDiff    *big.Int
	GasFees         *big.Int
	EthSentToCoinbase *big.Int
	Results         []TxResult
	RequiredFills   []RequiredFill
	StateBlockNumber uint64
	TotalGasUsed    uint64
}

// RequiredFill describes one (chain, asset, recipient, amount) output a
// CallBundle needs filled on the host chain for its orders to clear,
// reported rather than enforced.
type RequiredFill struct {
	ChainID   uint64
	Asset     common.Address
	Recipient common.Address
	Amount    *big.Int
}

// EthSendBundle is the flashbots-compatible transaction list this
// bundle wraps. Mirrors alloy's rpc::types::mev::EthSendBundle fields
// that SignetEthBundle flattens into its own wire shape.
type EthSendBundle struct {
	Txs               [][]byte
	BlockNumber       uint64
	MinTimestamp      *uint64
	MaxTimestamp      *uint64
	RevertingTxHashes []common.Hash
	ReplacementUUID   string
}

// SignetEthBundle is the signet_sendBundle request: a standard
// flashbots bundle plus an optional signed host-side fill to apply
// alongside it.
//
// Grounded on original_source/crates/bundle/src/send/bundle.rs.
type SignetEthBundle struct {
	Bundle    EthSendBundle
	HostFills *signing.SignedFill
}

// Txs returns the bundle's raw transaction bytes.
func (b *SignetEthBundle) Txs() [][]byte { return b.Bundle.Txs }

// BlockNumber returns the block number this bundle targets.
func (b *SignetEthBundle) BlockNumber() uint64 { return b.Bundle.BlockNumber }

// ReplacementUUID returns the bundle's replacement identifier, or ""
// if it does not carry one. Later submissions with an equal uuid
// replace earlier ones in the transaction cache.
func (b *SignetEthBundle) ReplacementUUID() string { return b.Bundle.ReplacementUUID }

// IsValidAtTimestamp reports whether timestamp falls within the
// bundle's [min_timestamp, max_timestamp] window (open on either side
// when unset).
func (b *SignetEthBundle) IsValidAtTimestamp(timestamp uint64) bool {
	min := uint64(0)
	if b.Bundle.MinTimestamp != nil {
		min = *b.Bundle.MinTimestamp
	}
	max := ^uint64(0)
	if b.Bundle.MaxTimestamp != nil {
		max = *b.Bundle.MaxTimestamp
	}
	return timestamp >= min && timestamp <= max
}

// IsValidAtBlockNumber reports whether blockNumber matches the block
// this bundle targets.
func (b *SignetEthBundle) IsValidAtBlockNumber(blockNumber uint64) bool {
	return b.Bundle.BlockNumber == blockNumber
}

// ValidateFillsOffchain checks the bundle's host fill, if any, is
// syntactically usable as of timestamp (permit not expired). It does
// not check signatures or on-chain balances.
func (b *SignetEthBundle) ValidateFillsOffchain(timestamp uint64) error {
	if b.HostFills == nil {
		return nil
	}
	return b.HostFills.Validate(timestamp)
}

// SignetEthBundleResponse is the signet_sendBundle response.
type SignetEthBundleResponse struct {
	BundleHash common.Hash
}
