package evm

import (
	"github.com/init4tech/signet-node/market"
)

// OrderDetector tracks in-EVM Order and Filled events across a
// transaction's call frames, and aggregates them once the transaction
// completes. It is the inspector half of the EVM driver: the interpreter
// layer calls EnterFrame/ExitFrame/RevertFrame as call frames are
// entered and left, and AddOrder/AddFilled whenever it decodes a
// matching log.
//
// Grounded on original_source/crates/evm/src/orders/{framed.rs,mod.rs}.
type OrderDetector struct {
	orders  *Framed[market.Order]
	filleds *Framed[market.Filled]
}

// NewOrderDetector returns an OrderDetector with empty frame state.
func NewOrderDetector() *OrderDetector {
	return &OrderDetector{
		orders:  NewFramed[market.Order](0),
		filleds: NewFramed[market.Filled](0),
	}
}

func (d *OrderDetector) EnterFrame() {
	d.orders.EnterFrame()
	d.filleds.EnterFrame()
}

func (d *OrderDetector) RevertFrame() {
	d.orders.RevertFrame()
	d.filleds.RevertFrame()
}

func (d *OrderDetector) ExitFrame() {
	d.orders.ExitFrame()
	d.filleds.ExitFrame()
}

// AddOrder records an in-EVM Order event in the currently open frame.
func (d *OrderDetector) AddOrder(o market.Order) { d.orders.Add(o) }

// AddFilled records an in-EVM Filled event in the currently open frame.
func (d *OrderDetector) AddFilled(f market.Filled) { d.filleds.Add(f) }

// IsComplete reports whether every frame opened during the current
// transaction has since been exited or reverted.
func (d *OrderDetector) IsComplete() bool {
	return d.orders.IsComplete() && d.filleds.IsComplete()
}

// AggregateOrders folds every surviving Order event into an
// AggregateOrders.
func (d *OrderDetector) AggregateOrders() *market.AggregateOrders {
	agg := market.NewAggregateOrders()
	for _, o := range d.orders.Events() {
		order := o
		agg.Ingest(&order)
	}
	return agg
}

// AggregateFills folds every surviving Filled event into an
// AggregateFills, attributing them to chainID (the chain the detector's
// EVM is executing).
func (d *OrderDetector) AggregateFills(chainID uint64) *market.AggregateFills {
	agg := market.NewAggregateFills()
	for _, f := range d.filleds.Events() {
		fill := f
		agg.AddFill(chainID, &fill)
	}
	return agg
}

// Reset clears all recorded events and open frames, readying the
// detector for the next transaction.
func (d *OrderDetector) Reset() {
	d.orders = NewFramed[market.Order](0)
	d.filleds = NewFramed[market.Filled](0)
}
