package evm

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestFramedRevertDiscardsFrame(t *testing.T) {
	f := NewFramed[int](0)
	f.EnterFrame()
	f.Add(1)
	if f.Len() != 1 {
		t.Fatalf("expected 1 event, got %d", f.Len())
	}
	f.RevertFrame()
	if !f.IsEmpty() {
		t.Fatalf("expected frame reverted to empty")
	}
	if !f.IsComplete() {
		t.Fatalf("expected no open frames after revert")
	}
}

func TestFramedNestedRevert(t *testing.T) {
	f := NewFramed[int](0)
	f.EnterFrame()
	f.Add(1)

	f.EnterFrame()
	f.Add(2)
	f.Add(3)

	f.EnterFrame()
	f.Add(4)
	f.Add(5)
	f.Add(6)
	if f.Len() != 6 {
		t.Fatalf("expected 6 events, got %d", f.Len())
	}

	f.ExitFrame()
	if f.Len() != 6 {
		t.Fatalf("exit should not discard: got %d", f.Len())
	}

	f.RevertFrame()
	if f.Len() != 1 {
		t.Fatalf("expected revert to roll back to 1 event, got %d", f.Len())
	}

	f.ExitFrame()
	if !f.IsComplete() {
		t.Fatalf("expected all frames closed")
	}
}

func TestFramedRevertWithNoFramePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on revert with no open frame")
		}
	}()
	f := NewFramed[int](0)
	f.RevertFrame()
}

func TestAliasRoundTrip(t *testing.T) {
	a := common.HexToAddress("0x00000000000000000000000000000000001234")
	aliased := Alias(a)
	if aliased == a {
		t.Fatalf("expected alias to differ from original")
	}
	if got := Unalias(aliased); got != a {
		t.Fatalf("unalias(alias(a)) = %v, want %v", got, a)
	}
}

func TestAliasWrapsModulus(t *testing.T) {
	a := common.HexToAddress("0xffffffffffffffffffffffffffffffffffffffff")
	aliased := Alias(a)
	if got := Unalias(aliased); got != a {
		t.Fatalf("unalias(alias(a)) = %v, want %v (wraparound case)", got, a)
	}
}

func TestMagicSigRoundTrip(t *testing.T) {
	m := MagicSig{
		TxHash:   common.HexToHash("0xabc"),
		EventIdx: 7,
		Sender:   common.HexToAddress("0x01"),
	}
	r, s, v := m.Encode()
	got, err := DecodeMagicSig(r, s, v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != m {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestDecodeMagicSigRejectsOrdinarySignature(t *testing.T) {
	if _, err := DecodeMagicSig(common.Hash{}, common.Hash{}, 1); err != ErrNotMagicSig {
		t.Fatalf("expected ErrNotMagicSig, got %v", err)
	}
}
