package journal

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// JournalMeta is the fixed-shape header every HostJournal carries: the
// host height it was produced for, the hash of the previous journal in
// the chain, and the rollup header it attests to. Grounded on
// original_source/crates/journal/src/meta.rs.
type JournalMeta struct {
	HostHeight      uint64
	PrevJournalHash common.Hash
	Header          *gethtypes.Header
}

// encode appends the meta to buf: HostHeight as 8 big-endian bytes, the
// 32-byte PrevJournalHash, then headerRLP behind a 4-byte big-endian
// length prefix.
func (m JournalMeta) encode(buf []byte, headerRLP []byte) []byte {
	var hostHeight [8]byte
	binary.BigEndian.PutUint64(hostHeight[:], m.HostHeight)
	buf = append(buf, hostHeight[:]...)
	buf = append(buf, m.PrevJournalHash[:]...)
	buf = append(buf, lengthPrefixed(headerRLP)...)
	return buf
}
