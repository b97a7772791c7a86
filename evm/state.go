package evm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// StateView is the narrow balance-mutation surface the driver needs for
// operations that bypass the interpreter entirely: crediting a native
// bridge-in and debiting unused gas back from a Transact sender. It pins
// down only those two operations rather than depending on the full
// state.StateDB surface (whose AddBalance/SubBalance now also take a
// tracing.BalanceChangeReason); a production node satisfies this with a
// thin adapter around *state.StateDB that supplies the reason and
// performs the underflow check SubBalance reports here.
type StateView interface {
	AddBalance(addr common.Address, amount *uint256.Int)
	// SubBalance attempts to debit amount from addr's balance. It
	// returns false, leaving the balance unchanged, if the account's
	// balance is smaller than amount.
	SubBalance(addr common.Address, amount *uint256.Int) bool
	GetBalance(addr common.Address) *uint256.Int
	GetNonce(addr common.Address) uint64
	SetNonce(addr common.Address, nonce uint64)
}
