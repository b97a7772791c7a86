package constants

import "github.com/ethereum/go-ethereum/common"

// TokenTag is the semantic label attached to a predeployed token address.
type TokenTag string

const (
	TagUSDC TokenTag = "USDC"
	TagUSDT TokenTag = "USDT"
	TagWBTC TokenTag = "WBTC"
)

// TokenRecord pairs a predeploy address with its semantic tag, used by
// PredeployTokens.USDRecords to expose a richer, list-shaped view over
// the underlying struct without inventing unseen fields (see DESIGN.md
// "Open Question Decisions" #2).
type TokenRecord struct {
	Tag     TokenTag
	Address common.Address
}

// PredeployTokens is the predeployed token table mirrored between host
// and rollup, carrying USDC/USDT/WBTC addresses. This is the shape
// actually present in the grounding material
// (original_source/crates/constants/src/tokens.rs); no richer
// HostTokens/RollupTokens variant was found in the retrieved pack.
type PredeployTokens struct {
	USDC common.Address
	USDT common.Address
	WBTC common.Address
}

// USDRecords returns the USD-stablecoin-tagged entries of the table as a
// list, without fabricating fields never observed in the grounding
// material.
func (t PredeployTokens) USDRecords() []TokenRecord {
	return []TokenRecord{
		{Tag: TagUSDC, Address: t.USDC},
		{Tag: TagUSDT, Address: t.USDT},
	}
}

// AllRecords returns every predeployed token in the table, USD-tagged and
// otherwise.
func (t PredeployTokens) AllRecords() []TokenRecord {
	return append(t.USDRecords(), TokenRecord{Tag: TagWBTC, Address: t.WBTC})
}
