package constants

import "testing"

func TestRuBlockInvariant(t *testing.T) {
	c := Test()
	c.Host.DeployHeight = 100

	if _, ok := c.RuBlock(100); ok {
		t.Fatalf("expected ru_block invalid at exactly deploy height")
	}
	if _, ok := c.RuBlock(50); ok {
		t.Fatalf("expected ru_block invalid below deploy height")
	}
	got, ok := c.RuBlock(150)
	if !ok || got != 50 {
		t.Fatalf("RuBlock(150) = (%d, %v), want (50, true)", got, ok)
	}
}

func TestIsSystemContract(t *testing.T) {
	c := Pecorino()
	if !c.IsSystemContract(c.Host.Zenith) {
		t.Fatalf("zenith should be a system contract")
	}
	if c.IsSystemContract(c.Host.Tokens.USDC) {
		t.Fatalf("a token address must not be treated as a system contract")
	}
}

func TestMainnetRequiresOverrides(t *testing.T) {
	if _, err := Mainnet(MainnetOverrides{}); err != ErrMainnetUnconfigured {
		t.Fatalf("expected ErrMainnetUnconfigured, got %v", err)
	}

	full := MainnetOverrides{
		Zenith: Pecorino().Host.Zenith, Orders: Pecorino().Host.Orders,
		Passage: Pecorino().Host.Passage, Transactor: Pecorino().Host.Transactor,
		USDC: Pecorino().Host.Tokens.USDC, USDT: Pecorino().Host.Tokens.USDT, WBTC: Pecorino().Host.Tokens.WBTC,
		RuOrders: Pecorino().Rollup.Orders, RuPassage: Pecorino().Rollup.Passage,
		BaseFeeRecipient: Pecorino().Rollup.BaseFeeRecipient,
		RuUSDC:           Pecorino().Rollup.Tokens.USDC, RuUSDT: Pecorino().Rollup.Tokens.USDT, RuWBTC: Pecorino().Rollup.Tokens.WBTC,
	}
	if _, err := Mainnet(full); err != nil {
		t.Fatalf("expected no error with full overrides, got %v", err)
	}
}

func TestUSDRecords(t *testing.T) {
	toks := Test().Host.Tokens
	recs := toks.USDRecords()
	if len(recs) != 2 {
		t.Fatalf("expected 2 usd records, got %d", len(recs))
	}
	if recs[0].Tag != TagUSDC || recs[1].Tag != TagUSDT {
		t.Fatalf("unexpected tag ordering: %+v", recs)
	}
	all := toks.AllRecords()
	if len(all) != 3 || all[2].Tag != TagWBTC {
		t.Fatalf("AllRecords should append WBTC: %+v", all)
	}
}
