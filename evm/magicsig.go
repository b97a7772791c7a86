package evm

import (
	"encoding/binary"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// magicV is a recovery-id byte that no valid secp256k1 signature ever
// produces (the real recovery id is always 0 or 1), marking a signature
// as a MagicSig rather than a genuine one.
const magicV = 0xff

// MagicSig is the sentinel (r, s, v) signature recorded as the sender
// signature on a synthesized system transaction's receipt. It carries
// the original off-chain sender and the host log index the event came
// from, recoverable without attempting secp256k1 recovery (which is
// guaranteed to fail against it).
//
// Encoding: r = tx_hash (32 bytes); s = 4 zero bytes, the 20-byte
// sender, then event_idx as a big-endian uint64 in the last 8 bytes;
// v = magicV. Grounded on the synthesized-sender scheme described for
// system transactions.
type MagicSig struct {
	TxHash   common.Hash
	EventIdx uint64
	Sender   common.Address
}

// ErrNotMagicSig is returned by DecodeMagicSig when v does not carry the
// sentinel recovery id.
var ErrNotMagicSig = errors.New("evm: signature is not a magic signature")

// Encode returns the (r, s, v) triple for this MagicSig.
func (m MagicSig) Encode() (r common.Hash, s common.Hash, v byte) {
	r = m.TxHash
	var sBuf [32]byte
	binary.BigEndian.PutUint64(sBuf[24:], m.EventIdx)
	copy(sBuf[4:24], m.Sender[:])
	return r, common.Hash(sBuf), magicV
}

// DecodeMagicSig recovers the original sender and source event index
// from a magic signature, failing if v is not the sentinel value.
func DecodeMagicSig(r, s common.Hash, v byte) (MagicSig, error) {
	if v != magicV {
		return MagicSig{}, ErrNotMagicSig
	}
	var sender common.Address
	copy(sender[:], s[4:24])
	eventIdx := binary.BigEndian.Uint64(s[24:])
	return MagicSig{TxHash: r, EventIdx: eventIdx, Sender: sender}, nil
}
