package bundle

import (
	"errors"
	"fmt"
)

// Kind distinguishes the send-bundle driver's abort reasons. All of
// them abort the owning bundle; other items in the same simulation
// round are unaffected.
type Kind int

const (
	// BundleEmpty reports that a bundle carried no transactions. Every
	// bundle must contain at least one transaction.
	BundleEmpty Kind = iota
	// BlockNumberMismatch reports that the bundle's target block number
	// does not match the block currently being built.
	BlockNumberMismatch
	// TimestampOutOfRange reports that the current block's timestamp
	// falls outside the bundle's [min_timestamp, max_timestamp] window.
	TimestampOutOfRange
	// UnsupportedTransactionType reports that a transaction in the
	// bundle used an encoding this driver refuses to run, such as an
	// EIP-4844 blob transaction.
	UnsupportedTransactionType
	// TransactionDecodingError reports that a transaction's raw bytes
	// could not be decoded as a typed transaction envelope at all.
	TransactionDecodingError
	// BundleReverted reports that a transaction reverted without its
	// hash appearing in the bundle's reverting_tx_hashes allow-list.
	BundleReverted
)

func (k Kind) String() string {
	switch k {
	case BundleEmpty:
		return "BundleEmpty"
	case BlockNumberMismatch:
		return "BlockNumberMismatch"
	case TimestampOutOfRange:
		return "TimestampOutOfRange"
	case UnsupportedTransactionType:
		return "UnsupportedTransactionType"
	case TransactionDecodingError:
		return "TransactionDecodingError"
	case BundleReverted:
		return "BundleReverted"
	default:
		return "Unknown"
	}
}

// Error is the send-bundle driver's abort error. Cause is populated
// only for TransactionDecodingError, where a concrete decode failure
// exists.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bundle: %s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("bundle: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(kind Kind) *Error { return &Error{Kind: kind} }

func newDecodingError(cause error) *Error {
	return &Error{Kind: TransactionDecodingError, Cause: cause}
}

// ErrReplacementUUIDRequired describes a bundle submitted without a
// replacement_uuid: a bundle item can only be identified and later
// superseded through its uuid. No function in this module returns it;
// sim.NewBundleItem reports that case as
// sim.ErrBundleWithoutReplacementUUID.
var ErrReplacementUUIDRequired = errors.New("bundle: replacement_uuid is required for a bundle item")
