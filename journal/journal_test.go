package journal

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

func sampleHeader(n int64) *gethtypes.Header {
	return &gethtypes.Header{Number: big.NewInt(n), Time: uint64(n) * 2}
}

func TestRoundTripEmptyDiff(t *testing.T) {
	meta := JournalMeta{HostHeight: 10, PrevJournalHash: common.HexToHash("0xaa"), Header: sampleHeader(5)}
	hj := NewHostJournal(meta, NewBundleStateIndex())
	j := NewJournalV1(hj)

	encoded, err := j.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeJournal(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, ok := decoded.AsV1()
	if !ok {
		t.Fatalf("expected v1 journal")
	}
	if got.HostHeight() != 10 {
		t.Fatalf("host height mismatch: got %d", got.HostHeight())
	}
	if got.PrevJournalHash() != meta.PrevJournalHash {
		t.Fatalf("prev journal hash mismatch")
	}
	if got.JournalHash() != hj.JournalHash() {
		t.Fatalf("round-tripped journal hash differs from original")
	}
}

func TestRoundTripWithStateDiff(t *testing.T) {
	addr := common.HexToAddress("0x01")
	codeHash := common.HexToHash("0xcc")

	diff := NewBundleStateIndex()
	diff.State[addr] = AcctDiff{
		Outcome: InfoOutcome{
			Kind: Diff,
			Old:  AccountInfo{Balance: big.NewInt(100), Nonce: 1, CodeHash: codeHash},
			New:  AccountInfo{Balance: big.NewInt(200), Nonce: 2, CodeHash: codeHash},
		},
		StorageDiff: map[string]StorageSlot{
			big.NewInt(7).Text(16): {Prev: big.NewInt(1), New: big.NewInt(2)},
		},
	}
	diff.NewContracts[codeHash] = []byte{0x60, 0x60}

	meta := JournalMeta{HostHeight: 20, PrevJournalHash: common.HexToHash("0xbb"), Header: sampleHeader(6)}
	hj := NewHostJournal(meta, diff)

	encoded, err := hj2journal(hj).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeJournal(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, _ := decoded.AsV1()

	gotDiff, ok := got.Diff.State[addr]
	if !ok {
		t.Fatalf("expected decoded diff to contain %v", addr)
	}
	if gotDiff.Outcome.Kind != Diff || !gotDiff.Outcome.New.equal(diff.State[addr].Outcome.New) {
		t.Fatalf("decoded account outcome mismatch: %+v", gotDiff.Outcome)
	}
	slot, ok := gotDiff.StorageDiff[big.NewInt(7).Text(16)]
	if !ok || slot.New.Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("decoded storage slot mismatch: %+v", slot)
	}
	if code, ok := got.Diff.NewContracts[codeHash]; !ok || len(code) != 2 {
		t.Fatalf("decoded new contract bytecode mismatch: %v", code)
	}
}

func hj2journal(h *HostJournal) Journal { return NewJournalV1(h) }

func TestJournalChainLink(t *testing.T) {
	meta1 := JournalMeta{HostHeight: 1, PrevJournalHash: common.Hash{}, Header: sampleHeader(1)}
	j1 := NewHostJournal(meta1, NewBundleStateIndex())

	meta2 := JournalMeta{HostHeight: 2, PrevJournalHash: j1.JournalHash(), Header: sampleHeader(2)}
	j2 := NewHostJournal(meta2, NewBundleStateIndex())

	if j2.PrevJournalHash() != j1.JournalHash() {
		t.Fatalf("journal chain link broken: j2.prev=%v j1.hash=%v", j2.PrevJournalHash(), j1.JournalHash())
	}
}

func TestUnknownVersionRejected(t *testing.T) {
	if _, err := DecodeJournal([]byte{0xff}); err == nil {
		t.Fatalf("expected error decoding unknown version")
	}
}
