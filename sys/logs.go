package sys

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/init4tech/signet-node/constants"
)

func word(b []byte) common.Hash {
	var h common.Hash
	copy(h[32-len(b):], b)
	return h
}

func addrTopic(a common.Address) common.Hash { return word(a[:]) }
func u64Topic(v uint64) common.Hash          { return common.BigToHash(new(big.Int).SetUint64(v)) }
func amountWord(a *uint256.Int) common.Hash  { return common.Hash(a.Bytes32()) }

// mintNativeLog builds the synthesized MintNative event recorded on a
// native-bridge-in receipt: txHash and logIndex identify the originating
// host log, recipient/amount describe the credit.
func mintNativeLog(txHash common.Hash, logIndex uint64, recipient common.Address, amount *uint256.Int) *gethtypes.Log {
	return &gethtypes.Log{
		Address: constants.MinterAddress,
		Topics:  []common.Hash{mintNativeSig, txHash, u64Topic(logIndex)},
		Data:    append(addrTopic(recipient).Bytes(), amountWord(amount).Bytes()...),
	}
}

// mintTokenLog builds the synthesized MintToken event, additionally
// recording the corresponding host-chain token address.
func mintTokenLog(txHash common.Hash, logIndex uint64, recipient common.Address, amount *uint256.Int, hostToken common.Address) *gethtypes.Log {
	data := make([]byte, 0, 96)
	data = append(data, addrTopic(recipient).Bytes()...)
	data = append(data, amountWord(amount).Bytes()...)
	data = append(data, addrTopic(hostToken).Bytes()...)
	return &gethtypes.Log{
		Address: constants.MinterAddress,
		Topics:  []common.Hash{mintTokenSig, txHash, u64Topic(logIndex)},
		Data:    data,
	}
}

// transactLog builds the synthesized Transact event recorded when a
// host-initiated rollup call is executed.
func transactLog(txHash common.Hash, logIndex uint64, sender common.Address, value *uint256.Int, gas uint64, maxFeePerGas uint64) *gethtypes.Log {
	data := make([]byte, 0, 96)
	data = append(data, amountWord(value).Bytes()...)
	data = append(data, u64Topic(gas).Bytes()...)
	data = append(data, u64Topic(maxFeePerGas).Bytes()...)
	return &gethtypes.Log{
		Address: constants.MinterAddress,
		Topics:  []common.Hash{transactSig, txHash, addrTopic(sender)},
		Data:    data,
	}
}

// Event signature topics for the three synthesized system events. These
// are internal sentinels, not real Keccak256 selectors, since the
// synthesized logs never correspond to bytecode actually deployed at
// MINTER_ADDRESS.
var (
	mintNativeSig = common.HexToHash("0x4d696e744e6174697665000000000000000000000000000000000000000000")
	mintTokenSig  = common.HexToHash("0x4d696e74546f6b656e000000000000000000000000000000000000000000")
	transactSig   = common.HexToHash("0x5472616e7361637400000000000000000000000000000000000000000000")
)
