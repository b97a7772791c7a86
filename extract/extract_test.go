package extract

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/init4tech/signet-node/constants"
)

func chainIDTopic(id uint64) common.Hash {
	return common.BigToHash(new(big.Int).SetUint64(id))
}

func addrTopic(a common.Address) common.Hash {
	var h common.Hash
	copy(h[12:], a[:])
	return h
}

func TestExtractRejectsAtOrBeforeDeployHeight(t *testing.T) {
	c := constants.Test()
	c.Host.DeployHeight = 100
	x := NewExtractor(c)

	header := &gethtypes.Header{Number: big.NewInt(100)}
	if _, err := x.Extract(header, nil); err == nil {
		t.Fatalf("expected ErrBeforeDeployHeight")
	}
}

func TestExtractDecodesEnterAndKeepsOnlyFirstBlockSubmitted(t *testing.T) {
	c := constants.Test()
	c.Host.DeployHeight = 100
	x := NewExtractor(c)

	recipient := common.HexToAddress("0x00000000000000000000000000000000000099")
	enterLog := &gethtypes.Log{
		Address: c.Host.Passage,
		Topics:  []common.Hash{{}, chainIDTopic(c.Rollup.ChainID), addrTopic(recipient)},
		Data:    common.BigToHash(big.NewInt(1000)).Bytes(),
	}

	sub1 := &gethtypes.Log{
		Address: c.Host.Zenith,
		Topics:  []common.Hash{{}, chainIDTopic(c.Rollup.ChainID)},
		Data:    append(addrTopic(recipient).Bytes(), common.BigToHash(big.NewInt(30_000_000)).Bytes()[24:]...),
	}
	sub2 := &gethtypes.Log{Address: c.Host.Zenith, Topics: sub1.Topics, Data: sub1.Data}

	receipts := []*gethtypes.Receipt{
		{TxHash: common.HexToHash("0x01"), Logs: []*gethtypes.Log{enterLog, sub1}},
		{TxHash: common.HexToHash("0x02"), Logs: []*gethtypes.Log{sub2}},
	}

	header := &gethtypes.Header{Number: big.NewInt(101), Time: 12345}
	extracts, err := x.Extract(header, receipts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(extracts.Enters) != 1 {
		t.Fatalf("expected 1 Enter event, got %d", len(extracts.Enters))
	}
	if !extracts.ContainsBlock() {
		t.Fatalf("expected a BlockSubmitted event to be kept")
	}
	if extracts.Submitted.Event.TxHash != receipts[0].TxHash {
		t.Fatalf("expected first BlockSubmitted to win, got tx %v", extracts.Submitted.Event.TxHash)
	}
}
