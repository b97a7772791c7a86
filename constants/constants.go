// Package constants holds the chain identifiers, system contract
// addresses, and predeployed token table shared by every rollup-node
// package. It mirrors the role params/mantle.go plays for the upstream
// op-geth chain configs, but for a host+rollup pair instead of a single
// chain.
package constants

import (
	"github.com/ethereum/go-ethereum/common"
)

// MinterAddress is the sender recorded on synthesized system
// transactions (MintNative, MintToken, Transact). It spells "tokenadmin"
// in hex ASCII and is a real, literal constant, not a placeholder.
var MinterAddress = common.HexToAddress("0x00000000000000000000746f6b656e61646d696e")

// HostConstants describes the host-chain half of a SystemConstants pair.
type HostConstants struct {
	ChainID     uint64
	DeployHeight uint64
	Zenith      common.Address
	Orders      common.Address
	Passage     common.Address
	Transactor  common.Address
	Tokens      PredeployTokens
}

// RollupConstants describes the rollup-chain half of a SystemConstants
// pair.
type RollupConstants struct {
	ChainID          uint64
	Orders           common.Address
	Passage          common.Address
	BaseFeeRecipient common.Address
	Tokens           PredeployTokens
}

// SystemConstants is the immutable {host, rollup} configuration pair
// every other package derives chain ids, system contract addresses, and
// predeploy tokens from.
type SystemConstants struct {
	Host   HostConstants
	Rollup RollupConstants
}

// RuBlock returns the rollup block number corresponding to hostBlock,
// enforcing the invariant `ru_block = host_block - deploy_height`
// whenever `host_block > deploy_height`.
func (c SystemConstants) RuBlock(hostBlock uint64) (uint64, bool) {
	if hostBlock <= c.Host.DeployHeight {
		return 0, false
	}
	return hostBlock - c.Host.DeployHeight, true
}

// IsSystemContract reports whether addr is one of the four host-side
// system contracts this configuration recognizes.
func (c SystemConstants) IsSystemContract(addr common.Address) bool {
	return addr == c.Host.Zenith || addr == c.Host.Orders ||
		addr == c.Host.Passage || addr == c.Host.Transactor
}
