package journal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// Version identifies the wire format of a Journal's body
// ("1-byte version, then version-specific body").
type Version byte

const V1 Version = 1

func lengthPrefixed(b []byte) []byte {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(b)))
	return append(n[:], b...)
}

func readLengthPrefixed(buf []byte) (data, rest []byte, err error) {
	if len(buf) < 4 {
		return nil, nil, errors.New("journal: truncated length prefix")
	}
	n := binary.BigEndian.Uint32(buf[:4])
	buf = buf[4:]
	if uint32(len(buf)) < n {
		return nil, nil, errors.New("journal: truncated length-prefixed payload")
	}
	return buf[:n], buf[n:], nil
}

// HostJournal is the chained state-diff record for one host block.
// Serialization and its hash are memoized on first access via
// sync.Once, mirroring the Rust original's OnceLock fields.
type HostJournal struct {
	Meta  JournalMeta
	Diff  *BundleStateIndex

	once       sync.Once
	serialized []byte
	hash       common.Hash
}

// NewHostJournal constructs a HostJournal from its parts.
func NewHostJournal(meta JournalMeta, diff *BundleStateIndex) *HostJournal {
	return &HostJournal{Meta: meta, Diff: diff}
}

func (j *HostJournal) computeSerialized() {
	headerRLP, err := rlp.EncodeToBytes(j.Meta.Header)
	if err != nil {
		// The rollup header is assumed well-formed by the time it is
		// journalled; a failure here indicates a programming error
		// upstream, not a recoverable runtime condition.
		panic(fmt.Sprintf("journal: failed to rlp-encode rollup header: %v", err))
	}

	buf := make([]byte, 0, 8+32+len(headerRLP)+64)
	buf = j.Meta.encode(buf, headerRLP)
	buf = encodeStateDiff(buf, j.Diff)

	j.serialized = buf
	j.hash = crypto.Keccak256Hash(buf)
}

// Serialized returns the journal's deterministic byte encoding,
// memoized after first computation.
func (j *HostJournal) Serialized() []byte {
	j.once.Do(j.computeSerialized)
	return j.serialized
}

// JournalHash returns keccak256(Serialized()), memoized alongside the
// serialized bytes.
func (j *HostJournal) JournalHash() common.Hash {
	j.once.Do(j.computeSerialized)
	return j.hash
}

// HostHeight returns the host block this journal was produced for.
func (j *HostJournal) HostHeight() uint64 { return j.Meta.HostHeight }

// PrevJournalHash returns the previous journal's hash, closing the
// chain link between successive host blocks.
func (j *HostJournal) PrevJournalHash() common.Hash { return j.Meta.PrevJournalHash }

func encodeStateDiff(buf []byte, d *BundleStateIndex) []byte {
	addrs := make([]common.Address, 0, len(d.State))
	for a := range d.State {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return common.Bytes2Hex(addrs[i][:]) < common.Bytes2Hex(addrs[j][:])
	})

	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(addrs)))
	buf = append(buf, count[:]...)

	for _, addr := range addrs {
		diff := d.State[addr]
		buf = append(buf, addr[:]...)
		buf = append(buf, byte(diff.Outcome.Kind))

		switch diff.Outcome.Kind {
		case Created:
			buf = encodeAccountInfo(buf, diff.Outcome.New)
		case Diff:
			buf = encodeAccountInfo(buf, diff.Outcome.Old)
			buf = encodeAccountInfo(buf, diff.Outcome.New)
		case Destroyed:
			buf = encodeAccountInfo(buf, diff.Outcome.Old)
		}

		slots := make([]string, 0, len(diff.StorageDiff))
		for k := range diff.StorageDiff {
			slots = append(slots, k)
		}
		sort.Strings(slots)

		var slotCount [4]byte
		binary.BigEndian.PutUint32(slotCount[:], uint32(len(slots)))
		buf = append(buf, slotCount[:]...)
		for _, k := range slots {
			slot, _ := new(big.Int).SetString(k, 16)
			sd := diff.StorageDiff[k]
			buf = append(buf, common.BigToHash(slot).Bytes()...)
			buf = append(buf, common.BigToHash(sd.Prev).Bytes()...)
			buf = append(buf, common.BigToHash(sd.New).Bytes()...)
		}
	}

	hashes := make([]common.Hash, 0, len(d.NewContracts))
	for h := range d.NewContracts {
		hashes = append(hashes, h)
	}
	sort.Slice(hashes, func(i, j int) bool {
		return common.Bytes2Hex(hashes[i][:]) < common.Bytes2Hex(hashes[j][:])
	})

	var codeCount [4]byte
	binary.BigEndian.PutUint32(codeCount[:], uint32(len(hashes)))
	buf = append(buf, codeCount[:]...)
	for _, h := range hashes {
		code := d.NewContracts[h]
		buf = append(buf, h[:]...)
		buf = append(buf, lengthPrefixed(code)...)
	}

	return buf
}

func encodeAccountInfo(buf []byte, a AccountInfo) []byte {
	bal := a.Balance
	if bal == nil {
		bal = new(big.Int)
	}
	buf = append(buf, common.BigToHash(bal).Bytes()...)
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], a.Nonce)
	buf = append(buf, nonce[:]...)
	buf = append(buf, a.CodeHash[:]...)
	return buf
}
