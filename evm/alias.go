package evm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// aliasOffset is 0x1111...1111, the 160-bit constant added to (and
// subtracted from) a contract address to compute its cross-chain alias.
var aliasOffset = func() *big.Int {
	b := make([]byte, common.AddressLength)
	for i := range b {
		b[i] = 0x11
	}
	return new(big.Int).SetBytes(b)
}()

var addressModulus = new(big.Int).Lsh(big.NewInt(1), 8*uint(common.AddressLength))

func addAddress(a common.Address, delta *big.Int) common.Address {
	sum := new(big.Int).Add(new(big.Int).SetBytes(a[:]), delta)
	sum.Mod(sum, addressModulus)
	var out common.Address
	b := sum.Bytes()
	copy(out[common.AddressLength-len(b):], b)
	return out
}

// Alias computes the cross-chain sender alias for a contract address:
// alias(A) = A + 0x1111...1111 (mod 2^160). Used so that a contract
// calling across the host/rollup boundary cannot collide with an
// externally-owned account of the same address on the other chain.
func Alias(a common.Address) common.Address {
	return addAddress(a, aliasOffset)
}

// Unalias reverses Alias: unalias(alias(A)) = A for every address A.
func Unalias(a common.Address) common.Address {
	return addAddress(a, new(big.Int).Neg(aliasOffset))
}
