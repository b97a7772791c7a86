package sys

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/init4tech/signet-node/constants"
	"github.com/init4tech/signet-node/evm"
	"github.com/init4tech/signet-node/extract"
)

// MintNative is the system action synthesized for a Passage.Enter event:
// a direct native-balance credit, recorded as an EIP-1559-shaped
// transaction purely for block/journal bookkeeping (no interpreter call
// is made).
//
// Grounded on original_source/crates/evm/src/sys/native.rs.
type MintNative struct {
	Recipient     common.Address
	Amount        *uint256.Int
	MagicSig      evm.MagicSig
	Nonce         uint64
	RollupChainID uint64
}

// NewMintNative builds a MintNative from an extracted Enter event and
// the nonce assigned to it by the driver's system-transaction counter.
func NewMintNative(nonce uint64, rollupChainID uint64, e *extract.ExtractedEvent, amount *uint256.Int) *MintNative {
	ev := e.Event.Enter
	return &MintNative{
		Recipient:     ev.Recipient,
		Amount:        amount,
		MagicSig:      evm.MagicSig{TxHash: e.Event.TxHash, EventIdx: uint64(e.Event.LogIndex), Sender: constants.MinterAddress},
		Nonce:         nonce,
		RollupChainID: rollupChainID,
	}
}

func (m *MintNative) Transaction() *gethtypes.Transaction {
	r, s, v := m.MagicSig.Encode()
	tx := gethtypes.NewTx(&gethtypes.DynamicFeeTx{
		ChainID:   new(big.Int).SetUint64(m.RollupChainID),
		Nonce:     m.Nonce,
		GasTipCap: new(big.Int),
		GasFeeCap: new(big.Int),
		Gas:       MinTransactionGas,
		To:        &m.Recipient,
		Value:     m.Amount.ToBig(),
		V:         new(big.Int).SetUint64(uint64(v)),
		R:         r.Big(),
		S:         s.Big(),
	})
	return tx
}

func (m *MintNative) Log() *gethtypes.Log {
	return mintNativeLog(m.MagicSig.TxHash, m.MagicSig.EventIdx, m.Recipient, m.Amount)
}

func (m *MintNative) Sender() common.Address { return constants.MinterAddress }

// Apply credits the recipient's balance directly, with no interpreter
// call: the defining trait of a SysAction rather than a SysTx.
func (m *MintNative) Apply(state evm.StateView) {
	state.AddBalance(m.Recipient, m.Amount)
}

// Receipt builds the receipt for this mint given the block's running
// cumulative gas used before this system transaction.
func (m *MintNative) Receipt(cumulativeGasUsedBefore uint64) *gethtypes.Receipt {
	return buildReceipt([]*gethtypes.Log{m.Log()}, cumulativeGasUsedBefore+MinTransactionGas)
}

// MintToken is the system action synthesized for a Passage.EnterToken
// event: a call to the token contract's mint(amount, to) function from
// MINTER_ADDRESS, executed through the interpreter like any other
// transaction.
//
// Grounded on original_source/crates/evm/src/sys/token.rs.
type MintToken struct {
	Recipient     common.Address
	Amount        *uint256.Int
	Token         common.Address
	HostToken     common.Address
	MagicSig      evm.MagicSig
	Nonce         uint64
	RollupChainID uint64
}

// NewMintToken builds a MintToken from an extracted EnterToken event.
func NewMintToken(nonce uint64, rollupChainID uint64, e *extract.ExtractedEvent, amount *uint256.Int, rollupToken common.Address) *MintToken {
	ev := e.Event.EnterToken
	return &MintToken{
		Recipient:     ev.Recipient,
		Amount:        amount,
		Token:         rollupToken,
		HostToken:     ev.Token,
		MagicSig:      evm.MagicSig{TxHash: e.Event.TxHash, EventIdx: uint64(e.Event.LogIndex), Sender: constants.MinterAddress},
		Nonce:         nonce,
		RollupChainID: rollupChainID,
	}
}

// MintCallData returns the ABI-encoded call to the token contract's
// mint(uint256 amount, address to) selector.
func (m *MintToken) MintCallData() []byte {
	data := make([]byte, 0, 4+64)
	data = append(data, mintSelector...)
	data = append(data, common.Hash(m.Amount.Bytes32()).Bytes()...)
	data = append(data, addrTopic(m.Recipient).Bytes()...)
	return data
}

func (m *MintToken) Transaction() *gethtypes.Transaction {
	r, s, v := m.MagicSig.Encode()
	tx := gethtypes.NewTx(&gethtypes.DynamicFeeTx{
		ChainID:   new(big.Int).SetUint64(m.RollupChainID),
		Nonce:     m.Nonce,
		GasTipCap: new(big.Int),
		GasFeeCap: new(big.Int),
		Gas:       MinTransactionGas,
		To:        &m.Token,
		Value:     new(big.Int),
		Data:      m.MintCallData(),
		V:         new(big.Int).SetUint64(uint64(v)),
		R:         r.Big(),
		S:         s.Big(),
	})
	return tx
}

func (m *MintToken) Log() *gethtypes.Log {
	return mintTokenLog(m.MagicSig.TxHash, m.MagicSig.EventIdx, m.Recipient, m.Amount, m.HostToken)
}

func (m *MintToken) Sender() common.Address { return constants.MinterAddress }

// mintSelector is the first four bytes of keccak256("mint(uint256,address)"),
// the token predeploys' shared mint entrypoint.
var mintSelector = []byte{0x94, 0xbf, 0x80, 0x4d}
