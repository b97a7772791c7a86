package signing

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// This file builds the permit2-style EIP-712 typed-data digest described
// in spec.md §4.10: a PermitBatchWitnessTransferFrom struct, keyed to
// the Permit2 verifying contract, the target chain id, and a witness
// embedding the order/fill's inputs or outputs, nonce, and deadline.
//
// Grounded on original_source/crates/zenith/src/orders/signing/mod.rs's
// permit_signing_info (the witness/permit split) and the upstream
// Permit2 contract's own PermitBatchWitnessTransferFrom type strings.

var (
	tokenPermissionsTypeHash = crypto.Keccak256Hash([]byte("TokenPermissions(address token,uint256 amount)"))

	orderOutputTypeString = "OrderOutput(address token,uint256 amount,address recipient,uint256 chainId)"
	orderWitnessTypeHash  = crypto.Keccak256Hash([]byte(
		"OrderWitness(uint256 deadline,OrderOutput[] outputs)" + orderOutputTypeString,
	))
	orderOutputTypeHash = crypto.Keccak256Hash([]byte(orderOutputTypeString))

	permit2DomainTypeHash = crypto.Keccak256Hash([]byte(
		"EIP712Domain(string name,uint256 chainId,address verifyingContract)",
	))
	permit2NameHash = crypto.Keccak256Hash([]byte("Permit2"))

	permitWitnessTransferFromTypeHash = crypto.Keccak256Hash([]byte(
		"PermitBatchWitnessTransferFrom(TokenPermissions[] permitted,address spender,uint256 nonce,uint256 deadline,OrderWitness witness)" +
			"OrderWitness(uint256 deadline,OrderOutput[] outputs)" + orderOutputTypeString +
			"TokenPermissions(address token,uint256 amount)",
	))
)

func encodeUint256(v *big.Int) [32]byte {
	var out [32]byte
	if v == nil {
		return out
	}
	b := v.Bytes()
	copy(out[32-len(b):], b)
	return out
}

func encodeAmount(v *uint256.Int) [32]byte {
	var out [32]byte
	if v == nil {
		return out
	}
	b := v.Bytes()
	copy(out[32-len(b):], b)
	return out
}

func encodeAddress(a common.Address) [32]byte {
	var out [32]byte
	copy(out[12:], a.Bytes())
	return out
}

// hashTokenPermissions computes the EIP-712 struct hash of one
// TokenPermissions leaf.
func hashTokenPermissions(t TokenPermissions) common.Hash {
	buf := make([]byte, 0, 96)
	buf = append(buf, tokenPermissionsTypeHash.Bytes()...)
	addr := encodeAddress(t.Token)
	buf = append(buf, addr[:]...)
	amt := encodeAmount(t.Amount)
	buf = append(buf, amt[:]...)
	return crypto.Keccak256Hash(buf)
}

// hashTokenPermissionsArray computes the EIP-712 array hash of a
// TokenPermissions slice: keccak256 of the concatenation of each
// element's struct hash.
func hashTokenPermissionsArray(perms []TokenPermissions) common.Hash {
	buf := make([]byte, 0, 32*len(perms))
	for _, p := range perms {
		h := hashTokenPermissions(p)
		buf = append(buf, h.Bytes()...)
	}
	return crypto.Keccak256Hash(buf)
}

// hashOrderOutput computes the EIP-712 struct hash of one OrderOutput
// leaf (used identically for an Order's outputs and a Fill's outputs).
func hashOrderOutput(o FillOutput) common.Hash {
	buf := make([]byte, 0, 4*32)
	buf = append(buf, orderOutputTypeHash.Bytes()...)
	tok := encodeAddress(o.Token)
	buf = append(buf, tok[:]...)
	amt := encodeAmount(o.Amount)
	buf = append(buf, amt[:]...)
	rcp := encodeAddress(o.Recipient)
	buf = append(buf, rcp[:]...)
	cid := encodeUint256(new(big.Int).SetUint64(o.ChainID))
	buf = append(buf, cid[:]...)
	return crypto.Keccak256Hash(buf)
}

func hashOrderOutputArray(outputs []FillOutput) common.Hash {
	buf := make([]byte, 0, 32*len(outputs))
	for _, o := range outputs {
		h := hashOrderOutput(o)
		buf = append(buf, h.Bytes()...)
	}
	return crypto.Keccak256Hash(buf)
}

// hashOrderWitness computes the struct hash of the OrderWitness leaf
// embedded in the permit's witness field: the deadline plus the
// outputs this permit authorizes spending against.
func hashOrderWitness(deadline uint64, outputs []FillOutput) common.Hash {
	buf := make([]byte, 0, 3*32)
	buf = append(buf, orderWitnessTypeHash.Bytes()...)
	dl := encodeUint256(new(big.Int).SetUint64(deadline))
	buf = append(buf, dl[:]...)
	outs := hashOrderOutputArray(outputs)
	buf = append(buf, outs.Bytes()...)
	return crypto.Keccak256Hash(buf)
}

// domainSeparator computes the permit2 EIP-712 domain separator for
// chainID, keyed to Permit2Address as the verifying contract.
func domainSeparator(chainID uint64) common.Hash {
	buf := make([]byte, 0, 4*32)
	buf = append(buf, permit2DomainTypeHash.Bytes()...)
	buf = append(buf, permit2NameHash.Bytes()...)
	cid := encodeUint256(new(big.Int).SetUint64(chainID))
	buf = append(buf, cid[:]...)
	addr := encodeAddress(Permit2Address)
	buf = append(buf, addr[:]...)
	return crypto.Keccak256Hash(buf)
}

// permitWitnessSigningHash computes the final EIP-712 digest a signer
// signs to authorize a PermitBatchWitnessTransferFrom: the permitted
// token legs, the spender (the order/fill contract on chainID), the
// permit2 nonce and deadline, and the order/fill witness.
func permitWitnessSigningHash(chainID uint64, spender common.Address, permitted []TokenPermissions, nonce, deadline uint64, witness []FillOutput, witnessDeadline uint64) common.Hash {
	buf := make([]byte, 0, 6*32)
	buf = append(buf, permitWitnessTransferFromTypeHash.Bytes()...)
	perms := hashTokenPermissionsArray(permitted)
	buf = append(buf, perms.Bytes()...)
	sp := encodeAddress(spender)
	buf = append(buf, sp[:]...)
	n := encodeUint256(new(big.Int).SetUint64(nonce))
	buf = append(buf, n[:]...)
	dl := encodeUint256(new(big.Int).SetUint64(deadline))
	buf = append(buf, dl[:]...)
	w := hashOrderWitness(witnessDeadline, witness)
	buf = append(buf, w.Bytes()...)
	structHash := crypto.Keccak256Hash(buf)

	prefix := []byte{0x19, 0x01}
	full := make([]byte, 0, 2+32+32)
	full = append(full, prefix...)
	ds := domainSeparator(chainID)
	full = append(full, ds.Bytes()...)
	full = append(full, structHash.Bytes()...)
	return crypto.Keccak256Hash(full)
}
