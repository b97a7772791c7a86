package journal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

var ErrTruncatedJournal = errors.New("journal: truncated")

// DecodeJournal parses the versioned wire form produced by Journal.Encode.
func DecodeJournal(buf []byte) (Journal, error) {
	if len(buf) < 1 {
		return Journal{}, ErrTruncatedJournal
	}
	version := Version(buf[0])
	switch version {
	case V1:
		h, err := decodeHostJournal(buf[1:])
		if err != nil {
			return Journal{}, err
		}
		return NewJournalV1(h), nil
	default:
		return Journal{}, fmt.Errorf("journal: unknown version %d", version)
	}
}

func decodeHostJournal(buf []byte) (*HostJournal, error) {
	if len(buf) < 8+32 {
		return nil, ErrTruncatedJournal
	}
	hostHeight := binary.BigEndian.Uint64(buf[:8])
	buf = buf[8:]
	var prevHash common.Hash
	copy(prevHash[:], buf[:32])
	buf = buf[32:]

	headerRLP, buf, err := readLengthPrefixed(buf)
	if err != nil {
		return nil, err
	}
	header := new(gethtypes.Header)
	if err := rlp.DecodeBytes(headerRLP, header); err != nil {
		return nil, fmt.Errorf("journal: decoding rollup header: %w", err)
	}

	diff, _, err := decodeStateDiff(buf)
	if err != nil {
		return nil, err
	}

	return NewHostJournal(JournalMeta{
		HostHeight:      hostHeight,
		PrevJournalHash: prevHash,
		Header:          header,
	}, diff), nil
}

func decodeStateDiff(buf []byte) (*BundleStateIndex, []byte, error) {
	if len(buf) < 4 {
		return nil, nil, ErrTruncatedJournal
	}
	addrCount := binary.BigEndian.Uint32(buf[:4])
	buf = buf[4:]

	d := NewBundleStateIndex()
	for i := uint32(0); i < addrCount; i++ {
		if len(buf) < 20+1 {
			return nil, nil, ErrTruncatedJournal
		}
		var addr common.Address
		copy(addr[:], buf[:20])
		buf = buf[20:]
		kind := InfoOutcomeKind(buf[0])
		buf = buf[1:]

		var outcome InfoOutcome
		outcome.Kind = kind
		switch kind {
		case Created:
			info, rest, err := decodeAccountInfo(buf)
			if err != nil {
				return nil, nil, err
			}
			outcome.New = info
			buf = rest
		case Diff:
			old, rest, err := decodeAccountInfo(buf)
			if err != nil {
				return nil, nil, err
			}
			buf = rest
			nw, rest2, err := decodeAccountInfo(buf)
			if err != nil {
				return nil, nil, err
			}
			outcome.Old, outcome.New = old, nw
			buf = rest2
		case Destroyed:
			old, rest, err := decodeAccountInfo(buf)
			if err != nil {
				return nil, nil, err
			}
			outcome.Old = old
			buf = rest
		default:
			return nil, nil, fmt.Errorf("journal: unknown outcome kind %d", kind)
		}

		if len(buf) < 4 {
			return nil, nil, ErrTruncatedJournal
		}
		slotCount := binary.BigEndian.Uint32(buf[:4])
		buf = buf[4:]

		storage := make(map[string]StorageSlot, slotCount)
		for s := uint32(0); s < slotCount; s++ {
			if len(buf) < 96 {
				return nil, nil, ErrTruncatedJournal
			}
			slot := new(big.Int).SetBytes(buf[:32])
			prev := new(big.Int).SetBytes(buf[32:64])
			nw := new(big.Int).SetBytes(buf[64:96])
			buf = buf[96:]
			storage[slot.Text(16)] = StorageSlot{Prev: prev, New: nw}
		}

		d.State[addr] = AcctDiff{Outcome: outcome, StorageDiff: storage}
	}

	if len(buf) < 4 {
		return nil, nil, ErrTruncatedJournal
	}
	codeCount := binary.BigEndian.Uint32(buf[:4])
	buf = buf[4:]
	for i := uint32(0); i < codeCount; i++ {
		if len(buf) < 32 {
			return nil, nil, ErrTruncatedJournal
		}
		var h common.Hash
		copy(h[:], buf[:32])
		buf = buf[32:]
		code, rest, err := readLengthPrefixed(buf)
		if err != nil {
			return nil, nil, err
		}
		buf = rest
		d.NewContracts[h] = append([]byte(nil), code...)
	}

	return d, buf, nil
}

func decodeAccountInfo(buf []byte) (AccountInfo, []byte, error) {
	if len(buf) < 32+8+32 {
		return AccountInfo{}, nil, ErrTruncatedJournal
	}
	balance := new(big.Int).SetBytes(buf[:32])
	buf = buf[32:]
	nonce := binary.BigEndian.Uint64(buf[:8])
	buf = buf[8:]
	var codeHash common.Hash
	copy(codeHash[:], buf[:32])
	buf = buf[32:]
	return AccountInfo{Balance: balance, Nonce: nonce, CodeHash: codeHash}, buf, nil
}
