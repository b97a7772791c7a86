package signing

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/init4tech/signet-node/market"
)

// OrderSubmitter delivers a signed order to a backend — typically
// txcache.Client's SubmitOrder, kept as a narrow interface here so
// signing does not depend on the HTTP transport package.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, order *SignedOrder) error
}

// OrderSender signs orders with signer and forwards them to submitter,
// pairing the two the way a filler's order-flow wiring needs.
//
// Grounded on
// original_source/crates/orders/src/order_sender.rs's OrderSender.
type OrderSender struct {
	signer    Signer
	submitter OrderSubmitter
}

// NewOrderSender returns an OrderSender backed by signer and submitter.
func NewOrderSender(signer Signer, submitter OrderSubmitter) *OrderSender {
	return &OrderSender{signer: signer, submitter: submitter}
}

// SignOrder signs order for chainID/orderContract and returns the
// SignedOrder, without submitting it.
func (s *OrderSender) SignOrder(order *market.Order, chainID uint64, orderContract common.Address) (*SignedOrder, error) {
	return s.SignUnsignedOrder(NewUnsignedOrder(order).WithChain(chainID, orderContract))
}

// SignUnsignedOrder signs an already-built UnsignedOrder.
func (s *OrderSender) SignUnsignedOrder(order *UnsignedOrder) (*SignedOrder, error) {
	return order.Sign(s.signer)
}

// SendOrder submits an already-signed order to the backend.
func (s *OrderSender) SendOrder(ctx context.Context, order *SignedOrder) error {
	return s.submitter.SubmitOrder(ctx, order)
}

// SignAndSendOrder signs order then submits it, returning the signed
// result for the caller to keep (e.g. to watch for its fill).
func (s *OrderSender) SignAndSendOrder(ctx context.Context, order *market.Order, chainID uint64, orderContract common.Address) (*SignedOrder, error) {
	signed, err := s.SignOrder(order, chainID, orderContract)
	if err != nil {
		return nil, err
	}
	if err := s.SendOrder(ctx, signed); err != nil {
		return nil, err
	}
	return signed, nil
}
