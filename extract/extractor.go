package extract

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"

	"github.com/init4tech/signet-node/constants"
	"github.com/init4tech/signet-node/market"
)

// LogDecoder turns one receipt log into an Event, or reports that the
// log did not match anything this decoder understands. A decode error
// (malformed layout) downgrades the log to "ignored" rather than failing
// the whole block.
type LogDecoder func(rollupChainID uint64, lg *gethtypes.Log) (Event, bool)

// Extractor scans host blocks for rollup-relevant events, dispatching by
// log address to the zenith/orders/passage/transactor decoders. Grounded
// on original_source/crates/extract/src/extractor.rs, which is likewise
// a thin newtype wrapper around SystemConstants plus a chain iterator.
type Extractor struct {
	Constants constants.SystemConstants

	decodeZenith      LogDecoder
	decodeOrders      LogDecoder
	decodePassage     LogDecoder
	decodeTransactor  LogDecoder
}

// NewExtractor builds an Extractor wired to the standard decoders
// (decodeZenithLog, decodeOrdersLog, decodePassageLog,
// decodeTransactorLog). The decoder fields are unexported, so only code
// inside this package can substitute them.
func NewExtractor(c constants.SystemConstants) *Extractor {
	return &Extractor{
		Constants:        c,
		decodeZenith:     decodeZenithLog,
		decodeOrders:     decodeOrdersLog,
		decodePassage:    decodePassageLog,
		decodeTransactor: decodeTransactorLog,
	}
}

// Extracts is the per-host-block result: the
// optional BlockSubmitted, ordered Enter/EnterToken/Transact/Filled
// lists, and an AggregateFills folded from the Filled events.
type Extracts struct {
	ChainID  uint64
	RuHeight uint64

	HostBlockNumber    uint64
	HostBlockTimestamp uint64

	Submitted   *ExtractedEvent
	Enters      []ExtractedEvent
	EnterTokens []ExtractedEvent
	Transacts   []ExtractedEvent
	Filleds     []ExtractedEvent

	fills *market.AggregateFills
}

// AggregateFills returns a clone of the fills folded from this block's
// Filled events.
func (e *Extracts) AggregateFills() *market.AggregateFills {
	if e.fills == nil {
		return market.NewAggregateFills()
	}
	return e.fills.Clone()
}

// ContainsBlock reports whether the host block carried a BlockSubmitted
// event.
func (e *Extracts) ContainsBlock() bool {
	return e.Submitted != nil
}

// ErrBeforeDeployHeight is returned by Extract when asked to scan a host
// block at or before the configured deploy height.
type ErrBeforeDeployHeight struct {
	HostBlock, DeployHeight uint64
}

func (e *ErrBeforeDeployHeight) Error() string {
	return "signet: host block at or before deploy height"
}

// Extract scans one host block's receipts for rollup-relevant events in
// log order, rejecting blocks at or before the deploy height.
func (x *Extractor) Extract(header *gethtypes.Header, receipts []*gethtypes.Receipt) (*Extracts, error) {
	hostBlock := header.Number.Uint64()
	if hostBlock <= x.Constants.Host.DeployHeight {
		return nil, &ErrBeforeDeployHeight{HostBlock: hostBlock, DeployHeight: x.Constants.Host.DeployHeight}
	}
	ruHeight := hostBlock - x.Constants.Host.DeployHeight

	out := &Extracts{
		ChainID:            x.Constants.Rollup.ChainID,
		RuHeight:           ruHeight,
		HostBlockNumber:    hostBlock,
		HostBlockTimestamp: header.Time,
		fills:              market.NewAggregateFills(),
	}

	rollupChainID := x.Constants.Rollup.ChainID

	for txIndex, receipt := range receipts {
		for logIndex, lg := range receipt.Logs {
			ev, ok := x.decodeLog(rollupChainID, lg)
			if !ok {
				continue // malformed or irrelevant log: ignored, block proceeds
			}
			ev.TxHash = receipt.TxHash
			ev.LogIndex = uint(logIndex)

			extracted := ExtractedEvent{Event: ev, TxIndex: txIndex}

			switch ev.Kind {
			case KindBlockSubmitted:
				if out.Submitted == nil { // keep only the first
					out.Submitted = &extracted
				}
			case KindEnter:
				out.Enters = append(out.Enters, extracted)
			case KindEnterToken:
				out.EnterTokens = append(out.EnterTokens, extracted)
			case KindTransact:
				out.Transacts = append(out.Transacts, extracted)
			case KindFilled:
				out.Filleds = append(out.Filleds, extracted)
				out.fills.AddFill(x.Constants.Host.ChainID, (*market.Filled)(&ev.Filled))
			}
		}
	}

	return out, nil
}

func (x *Extractor) decodeLog(rollupChainID uint64, lg *gethtypes.Log) (Event, bool) {
	switch lg.Address {
	case x.Constants.Host.Zenith:
		return x.decodeZenith(rollupChainID, lg)
	case x.Constants.Host.Orders:
		return x.decodeOrders(rollupChainID, lg)
	case x.Constants.Host.Passage:
		return x.decodePassage(rollupChainID, lg)
	case x.Constants.Host.Transactor:
		return x.decodeTransactor(rollupChainID, lg)
	default:
		return Event{}, false
	}
}

// word32 reads a big-endian 256-bit word at offset off in data, zero
// padding short data, matching standard ABI event-data layout.
func word32(data []byte, off int) common.Hash {
	var h common.Hash
	if off < 0 || off >= len(data) {
		return h
	}
	end := off + 32
	if end > len(data) {
		end = len(data)
	}
	copy(h[:end-off], data[off:end])
	return h
}

func wordBig(data []byte, off int) *big.Int {
	w := word32(data, off)
	return new(big.Int).SetBytes(w[:])
}

// decodePassageLog decodes Passage::Enter / Passage::EnterToken. Topic
// layout: topics[0] = event signature, topics[1] = rollup chain id
// (indexed uint256), topics[2] = recipient (indexed address). Data
// carries the amount (and token address for EnterToken).
func decodePassageLog(rollupChainID uint64, lg *gethtypes.Log) (Event, bool) {
	if len(lg.Topics) < 3 {
		return Event{}, false
	}
	chainID := new(big.Int).SetBytes(lg.Topics[1][:]).Uint64()
	if chainID != rollupChainID {
		return Event{}, false
	}
	recipient := common.BytesToAddress(lg.Topics[2][:])

	switch len(lg.Data) {
	case 32: // Enter(uint256 rollupChainId, address recipient, uint256 amount)
		amt := word32(lg.Data, 0)
		return Event{
			Kind:    KindEnter,
			Address: lg.Address,
			Enter:   Enter{RollupChainID: chainID, Recipient: recipient, Amount: &amt},
		}, true
	case 64: // EnterToken(..., address token, uint256 amount)
		token := common.BytesToAddress(word32(lg.Data, 0).Bytes())
		amt := word32(lg.Data, 32)
		return Event{
			Kind:    KindEnterToken,
			Address: lg.Address,
			EnterToken: EnterToken{
				RollupChainID: chainID, Token: token, Recipient: recipient, Amount: &amt,
			},
		}, true
	default:
		return Event{}, false
	}
}

// decodeZenithLog decodes Zenith::BlockSubmitted.
func decodeZenithLog(rollupChainID uint64, lg *gethtypes.Log) (Event, bool) {
	if len(lg.Topics) < 2 || len(lg.Data) < 40 {
		return Event{}, false
	}
	chainID := new(big.Int).SetBytes(lg.Topics[1][:]).Uint64()
	if chainID != rollupChainID {
		return Event{}, false
	}
	sequencer := common.BytesToAddress(lg.Data[0:32])
	gasLimit := new(big.Int).SetBytes(lg.Data[32:40]).Uint64()
	return Event{
		Kind:    KindBlockSubmitted,
		Address: lg.Address,
		BlockSubmitted: BlockSubmitted{
			RollupChainID: chainID,
			Sequencer:     sequencer,
			GasLimit:      gasLimit,
		},
	}, true
}

// decodeTransactorLog decodes Transactor::Transact.
func decodeTransactorLog(rollupChainID uint64, lg *gethtypes.Log) (Event, bool) {
	if len(lg.Topics) < 3 || len(lg.Data) < 96 {
		return Event{}, false
	}
	chainID := new(big.Int).SetBytes(lg.Topics[1][:]).Uint64()
	if chainID != rollupChainID {
		return Event{}, false
	}
	sender := common.BytesToAddress(lg.Topics[2][:])
	to := common.BytesToAddress(lg.Data[0:32])
	gasLimit := new(big.Int).SetBytes(lg.Data[32:64]).Uint64()
	maxFee := new(big.Int).SetBytes(lg.Data[64:96]).Uint64()
	var data []byte
	if len(lg.Data) > 96 {
		data = append([]byte(nil), lg.Data[96:]...)
	}
	return Event{
		Kind:    KindTransact,
		Address: lg.Address,
		Transact: Transact{
			RollupChainID: chainID, Sender: sender, To: to,
			GasLimit: gasLimit, MaxFeePerGas: maxFee, Data: data,
		},
	}, true
}

// decodeOrdersLog decodes RollupOrders::Filled, filtering its outputs
// down to those targeting rollupChainID.
func decodeOrdersLog(rollupChainID uint64, lg *gethtypes.Log) (Event, bool) {
	if len(lg.Data)%96 != 0 || len(lg.Data) == 0 {
		return Event{}, false
	}
	var outs []market.Output
	for off := 0; off < len(lg.Data); off += 96 {
		token := common.BytesToAddress(lg.Data[off : off+32])
		amount := wordBig(lg.Data, off+32)
		recipientAndChain := word32(lg.Data, off+64)
		recipient := common.BytesToAddress(recipientAndChain[8:28])
		chainID := new(big.Int).SetBytes(recipientAndChain[28:32]).Uint64()
		if chainID != rollupChainID {
			continue
		}
		u, overflow := market.AmountFromBig(amount)
		if overflow {
			log.Warn("extract: Filled output amount overflow, dropping", "tx", lg.TxHash)
			continue
		}
		outs = append(outs, market.Output{Token: token, Amount: u, Recipient: recipient, ChainID: chainID})
	}
	if len(outs) == 0 {
		return Event{}, false
	}
	return Event{Kind: KindFilled, Address: lg.Address, Filled: Filled{Outputs: outs}}, true
}
