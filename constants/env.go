package constants

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// ConfigError reports a missing or unparseable environment-driven
// configuration value, identifying the offending key by name. Fatal at
// process startup.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("signet: missing configuration value %q", e.Key)
	}
	return fmt.Sprintf("signet: invalid configuration value %q: %s", e.Key, e.Reason)
}

func missing(key string) error {
	return &ConfigError{Key: key}
}

func invalid(key, reason string) error {
	return &ConfigError{Key: key, Reason: reason}
}

// LoadString loads a required string environment variable.
func LoadString(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", missing(key)
	}
	return v, nil
}

// LoadStringOpt loads an optional string environment variable.
func LoadStringOpt(key string) (string, bool) {
	return os.LookupEnv(key)
}

// LoadU64 loads a required uint64 environment variable.
func LoadU64(key string) (uint64, error) {
	v, err := LoadString(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, invalid(key, err.Error())
	}
	return n, nil
}

// LoadAddress loads a required hex-address environment variable.
func LoadAddress(key string) (common.Address, error) {
	v, err := LoadString(key)
	if err != nil {
		return common.Address{}, err
	}
	if !common.IsHexAddress(v) {
		return common.Address{}, invalid(key, "not a valid hex address")
	}
	return common.HexToAddress(v), nil
}

// LoadAddressOpt loads an optional hex-address environment variable.
func LoadAddressOpt(key string) (common.Address, bool) {
	v, ok := LoadStringOpt(key)
	if !ok || !common.IsHexAddress(v) {
		return common.Address{}, false
	}
	return common.HexToAddress(v), true
}

// HostEnvKeys/RuEnvKeys are the canonical environment variable names
// recognized by the embedded client, grouped by HOST_/RU_
// prefix and the tx-cache URL / signer key material.
const (
	EnvHostChainID      = "HOST_CHAIN_ID"
	EnvHostDeployHeight = "HOST_DEPLOY_HEIGHT"
	EnvHostZenith       = "HOST_ZENITH_ADDRESS"
	EnvHostOrders       = "HOST_ORDERS_ADDRESS"
	EnvHostPassage      = "HOST_PASSAGE_ADDRESS"
	EnvHostTransactor   = "HOST_TRANSACTOR_ADDRESS"
	EnvHostUSDC         = "HOST_USDC_ADDRESS"
	EnvHostUSDT         = "HOST_USDT_ADDRESS"
	EnvHostWBTC         = "HOST_WBTC_ADDRESS"

	EnvRuChainID          = "RU_CHAIN_ID"
	EnvRuOrders           = "RU_ORDERS_ADDRESS"
	EnvRuPassage          = "RU_PASSAGE_ADDRESS"
	EnvRuBaseFeeRecipient = "RU_BASE_FEE_RECIPIENT"
	EnvRuUSDC             = "RU_USDC_ADDRESS"
	EnvRuUSDT             = "RU_USDT_ADDRESS"
	EnvRuWBTC             = "RU_WBTC_ADDRESS"

	EnvTxCacheURL = "TX_CACHE_URL"
	EnvSignerKey  = "SIGNER_KEY"
)

// FromEnv loads a SystemConstants value from the process environment,
// returning a ConfigError identifying the first missing key encountered.
func FromEnv() (SystemConstants, error) {
	var c SystemConstants

	hostChainID, err := LoadU64(EnvHostChainID)
	if err != nil {
		return c, err
	}
	deployHeight, err := LoadU64(EnvHostDeployHeight)
	if err != nil {
		return c, err
	}
	zenith, err := LoadAddress(EnvHostZenith)
	if err != nil {
		return c, err
	}
	hOrders, err := LoadAddress(EnvHostOrders)
	if err != nil {
		return c, err
	}
	hPassage, err := LoadAddress(EnvHostPassage)
	if err != nil {
		return c, err
	}
	transactor, err := LoadAddress(EnvHostTransactor)
	if err != nil {
		return c, err
	}
	hUSDC, err := LoadAddress(EnvHostUSDC)
	if err != nil {
		return c, err
	}
	hUSDT, err := LoadAddress(EnvHostUSDT)
	if err != nil {
		return c, err
	}
	hWBTC, err := LoadAddress(EnvHostWBTC)
	if err != nil {
		return c, err
	}

	ruChainID, err := LoadU64(EnvRuChainID)
	if err != nil {
		return c, err
	}
	rOrders, err := LoadAddress(EnvRuOrders)
	if err != nil {
		return c, err
	}
	rPassage, err := LoadAddress(EnvRuPassage)
	if err != nil {
		return c, err
	}
	baseFeeRecipient, err := LoadAddress(EnvRuBaseFeeRecipient)
	if err != nil {
		return c, err
	}
	rUSDC, err := LoadAddress(EnvRuUSDC)
	if err != nil {
		return c, err
	}
	rUSDT, err := LoadAddress(EnvRuUSDT)
	if err != nil {
		return c, err
	}
	rWBTC, err := LoadAddress(EnvRuWBTC)
	if err != nil {
		return c, err
	}

	c.Host = HostConstants{
		ChainID:      hostChainID,
		DeployHeight: deployHeight,
		Zenith:       zenith,
		Orders:       hOrders,
		Passage:      hPassage,
		Transactor:   transactor,
		Tokens:       PredeployTokens{USDC: hUSDC, USDT: hUSDT, WBTC: hWBTC},
	}
	c.Rollup = RollupConstants{
		ChainID:          ruChainID,
		Orders:           rOrders,
		Passage:          rPassage,
		BaseFeeRecipient: baseFeeRecipient,
		Tokens:           PredeployTokens{USDC: rUSDC, USDT: rUSDT, WBTC: rWBTC},
	}
	return c, nil
}
