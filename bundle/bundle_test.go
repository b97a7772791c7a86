package bundle

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestIsValidAtTimestampOpenWindow(t *testing.T) {
	b := &SignetEthBundle{Bundle: EthSendBundle{BlockNumber: 5}}
	if !b.IsValidAtTimestamp(1000) {
		t.Fatalf("expected unset window to accept any timestamp")
	}
}

func TestIsValidAtTimestampBounded(t *testing.T) {
	min, max := uint64(10), uint64(20)
	b := &SignetEthBundle{Bundle: EthSendBundle{MinTimestamp: &min, MaxTimestamp: &max}}
	if b.IsValidAtTimestamp(9) {
		t.Fatalf("expected timestamp below window to be rejected")
	}
	if !b.IsValidAtTimestamp(15) {
		t.Fatalf("expected timestamp inside window to be accepted")
	}
	if b.IsValidAtTimestamp(21) {
		t.Fatalf("expected timestamp above window to be rejected")
	}
}

func TestIsValidAtBlockNumber(t *testing.T) {
	b := &SignetEthBundle{Bundle: EthSendBundle{BlockNumber: 42}}
	if !b.IsValidAtBlockNumber(42) {
		t.Fatalf("expected matching block number to be valid")
	}
	if b.IsValidAtBlockNumber(43) {
		t.Fatalf("expected mismatched block number to be invalid")
	}
}

func TestReplacementUUIDEmptyWhenUnset(t *testing.T) {
	b := &SignetEthBundle{}
	if b.ReplacementUUID() != "" {
		t.Fatalf("expected empty replacement uuid")
	}
}

func TestValidateFillsOffchainNilIsOK(t *testing.T) {
	b := &SignetEthBundle{}
	if err := b.ValidateFillsOffchain(100); err != nil {
		t.Fatalf("expected nil host fills to validate trivially, got %v", err)
	}
}

func TestBlockNumberOrTagAsNumber(t *testing.T) {
	n := uint64(7)
	withNum := BlockNumberOrTag{Number: &n}
	got, ok := withNum.AsNumber()
	if !ok || got != 7 {
		t.Fatalf("expected (7, true), got (%d, %v)", got, ok)
	}

	tagged := BlockNumberOrTag{Tag: "latest"}
	if _, ok := tagged.AsNumber(); ok {
		t.Fatalf("expected tag-only value to report no concrete number")
	}
}

func TestFillBlockEnvOverridesOnlySetFields(t *testing.T) {
	env := &BlockEnv{Number: 1, Timestamp: 100, GasLimit: 30_000_000}
	coinbase := common.HexToAddress("0xaa")
	ts := uint64(200)

	cb := &CallBundle{
		StateBlockNumber: BlockNumberOrTag{},
		Coinbase:         &coinbase,
		Timestamp:        &ts,
	}
	cb.FillBlockEnv(env)

	if env.Number != 1 {
		t.Fatalf("expected unset state block number to leave env.Number unchanged, got %d", env.Number)
	}
	if env.Coinbase != coinbase {
		t.Fatalf("expected coinbase override to apply")
	}
	if env.Timestamp != 200 {
		t.Fatalf("expected timestamp override to apply, got %d", env.Timestamp)
	}
	if env.GasLimit != 30_000_000 {
		t.Fatalf("expected unset gas limit to leave env.GasLimit unchanged")
	}
}

func TestErrorFormatting(t *testing.T) {
	err := newError(BundleEmpty)
	if err.Error() != "bundle: BundleEmpty" {
		t.Fatalf("unexpected error text: %q", err.Error())
	}

	cause := newError(TimestampOutOfRange)
	wrapped := newDecodingError(cause)
	if wrapped.Unwrap() != cause {
		t.Fatalf("expected Unwrap to return the wrapped cause")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		BundleEmpty:                "BundleEmpty",
		BlockNumberMismatch:        "BlockNumberMismatch",
		TimestampOutOfRange:        "TimestampOutOfRange",
		UnsupportedTransactionType: "UnsupportedTransactionType",
		TransactionDecodingError:   "TransactionDecodingError",
		BundleReverted:             "BundleReverted",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestDecodeAndValidateTxsRejectsGarbageBytes(t *testing.T) {
	b := &SignetEthBundle{Bundle: EthSendBundle{Txs: [][]byte{{0x00, 0x01, 0x02}}}}
	if _, err := b.DecodeAndValidateTxs(); err == nil {
		t.Fatalf("expected decode error for malformed transaction bytes")
	} else if berr, ok := err.(*Error); !ok || berr.Kind != TransactionDecodingError {
		t.Fatalf("expected TransactionDecodingError, got %v", err)
	}
}

func TestRequiredFillAmountIsBigInt(t *testing.T) {
	f := RequiredFill{ChainID: 1, Amount: big.NewInt(500)}
	if f.Amount.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("expected amount 500, got %s", f.Amount)
	}
}
