package constants

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrMainnetUnconfigured is returned by Mainnet when any of the
// override addresses is missing. The upstream source's mainnet constants
// file carries placeholder zero addresses; rather than invent real
// ones, selecting the mainnet profile without configuration fails
// loudly.
var ErrMainnetUnconfigured = errors.New("signet: mainnet profile selected without configured system addresses")

// Pecorino returns the hard-coded constants for the Pecorino testnet,
// grounded on original_source/crates/constants/src/chains/pecorino.rs.
func Pecorino() SystemConstants {
	return SystemConstants{
		Host: HostConstants{
			ChainID:      3151908,
			DeployHeight: 149984,
			Zenith:       common.HexToAddress("0xbe45611502116387211D28cE493D6Fb3d192bc4E"),
			Orders:       common.HexToAddress("0x4E8cC181805aFC307C83298242271142b8e2f249"),
			Passage:      common.HexToAddress("0xd553C4CA4792Af71F4B61231409eaB321c1Dd2Ce"),
			Transactor:   common.HexToAddress("0x1af3A16857C28917Ab2C4c78Be099fF251669200"),
			Tokens: PredeployTokens{
				USDC: common.HexToAddress("0x885F8DB528dC8a38aA3DDad9D3F619746B4a6A81"),
				USDT: common.HexToAddress("0x7970D259D4a96764Fa9B23FF0715A35f06f52D1A"),
				WBTC: common.HexToAddress("0x9aeDED4224f3dD31aD8A0B1FcD05E2d7829283a7"),
			},
		},
		Rollup: RollupConstants{
			ChainID:          14174,
			Orders:           common.HexToAddress("0xC2D3Dac6B115564B10329697195656459BFb2c74"),
			Passage:          common.HexToAddress("0xffffffffffffffffffffffffffffffffffffffff"),
			BaseFeeRecipient: common.HexToAddress("0xe0eDA3701D44511ce419344A4CeD30B52c9Ba231"),
			Tokens: PredeployTokens{
				USDC: common.HexToAddress("0x0B8BC5e60EE10957E0d1A0d95598fA63E65605e2"),
				USDT: common.HexToAddress("0xF34326d3521F1b07d1aa63729cB14A372f8A737C"),
				WBTC: common.HexToAddress("0xE3d7066115f7d6b65F88Dff86288dB4756a7D733"),
			},
		},
	}
}

// PecorinoTxCacheURL is the transaction-cache endpoint for Pecorino.
const PecorinoTxCacheURL = "https://transactions.pecorino.signet.sh"

// Test returns fixture constants used by package tests across the
// module, grounded on original_source/crates/evm/src/lib.rs's
// TEST_HOST_CHAIN_ID=1 / TEST_RU_CHAIN_ID=15 test fixtures.
func Test() SystemConstants {
	return SystemConstants{
		Host: HostConstants{
			ChainID:      1,
			DeployHeight: 0,
			Zenith:       common.HexToAddress("0x0000000000000000000000000000000000001a"),
			Orders:       common.HexToAddress("0x0000000000000000000000000000000000001b"),
			Passage:      common.HexToAddress("0x0000000000000000000000000000000000001c"),
			Transactor:   common.HexToAddress("0x0000000000000000000000000000000000001d"),
			Tokens: PredeployTokens{
				USDC: common.HexToAddress("0x0000000000000000000000000000000000002a"),
				USDT: common.HexToAddress("0x0000000000000000000000000000000000002b"),
				WBTC: common.HexToAddress("0x0000000000000000000000000000000000002c"),
			},
		},
		Rollup: RollupConstants{
			ChainID:          15,
			Orders:           common.HexToAddress("0x0000000000000000000000000000000000003a"),
			Passage:          common.HexToAddress("0x0000000000000000000000000000000000003b"),
			BaseFeeRecipient: common.HexToAddress("0x0000000000000000000000000000000000003c"),
			Tokens: PredeployTokens{
				USDC: common.HexToAddress("0x0000000000000000000000000000000000004a"),
				USDT: common.HexToAddress("0x0000000000000000000000000000000000004b"),
				WBTC: common.HexToAddress("0x0000000000000000000000000000000000004c"),
			},
		},
	}
}

// MainnetOverrides supplies the system addresses the embedded mainnet
// constants file otherwise leaves as placeholders.
type MainnetOverrides struct {
	Zenith, Orders, Passage, Transactor   common.Address
	USDC, USDT, WBTC                      common.Address
	RuOrders, RuPassage, BaseFeeRecipient common.Address
	RuUSDC, RuUSDT, RuWBTC                common.Address
}

func (o MainnetOverrides) complete() bool {
	zero := common.Address{}
	return o.Zenith != zero && o.Orders != zero && o.Passage != zero &&
		o.Transactor != zero && o.RuOrders != zero && o.RuPassage != zero &&
		o.BaseFeeRecipient != zero && o.USDC != zero && o.USDT != zero &&
		o.WBTC != zero && o.RuUSDC != zero && o.RuUSDT != zero && o.RuWBTC != zero
}

// Mainnet returns the mainnet SystemConstants, requiring the caller to
// supply every system address. It refuses to guess: selecting mainnet
// without a complete MainnetOverrides returns ErrMainnetUnconfigured.
func Mainnet(overrides MainnetOverrides) (SystemConstants, error) {
	if !overrides.complete() {
		return SystemConstants{}, ErrMainnetUnconfigured
	}
	return SystemConstants{
		Host: HostConstants{
			ChainID:      1,
			DeployHeight: 23734244,
			Zenith:       overrides.Zenith,
			Orders:       overrides.Orders,
			Passage:      overrides.Passage,
			Transactor:   overrides.Transactor,
			Tokens:       PredeployTokens{USDC: overrides.USDC, USDT: overrides.USDT, WBTC: overrides.WBTC},
		},
		Rollup: RollupConstants{
			ChainID:          519,
			Orders:           overrides.RuOrders,
			Passage:          overrides.RuPassage,
			BaseFeeRecipient: overrides.BaseFeeRecipient,
			Tokens:           PredeployTokens{USDC: overrides.RuUSDC, USDT: overrides.RuUSDT, WBTC: overrides.RuWBTC},
		},
	}, nil
}
