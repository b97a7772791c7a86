package signing

import (
	"errors"
	"fmt"
)

// ErrPermitExpired is returned when a SignedOrder/SignedFill's permit
// deadline has already passed as of the timestamp it is checked against.
var ErrPermitExpired = errors.New("signing: permit deadline has passed")

// ErrPermitMismatch is returned by SignedFill.Validate when its outputs
// do not pointwise match its permit's token permissions, grounded on
// original_source/crates/types/src/signing/error.rs's
// SignedPermitError::PermitMismatch.
var ErrPermitMismatch = errors.New("signing: permits and outputs do not match")

// ErrMissingChainID is returned when Sign is called before WithChain
// populated the target chain id.
var ErrMissingChainID = errors.New("signing: target chain id is missing, call WithChain before Sign")

// MissingOrderContractError reports that WithChain was never called for
// ChainID before signing (for a multi-chain fill, once per destination
// chain).
//
// Grounded on original_source/crates/types/src/signing/error.rs's
// SigningError::MissingOrderContract.
type MissingOrderContractError struct {
	ChainID uint64
}

func (e *MissingOrderContractError) Error() string {
	return fmt.Sprintf("signing: order contract address is missing for chain id %d, call WithChain before Sign", e.ChainID)
}
