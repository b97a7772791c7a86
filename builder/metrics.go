package builder

import (
	"time"

	"github.com/ethereum/go-ethereum/metrics"
)

// metrics
var (
	BuilderRoundTimer       = metrics.NewRegisteredTimer("builder/round", nil)
	BuilderRoundWinnerMeter = metrics.NewRegisteredMeter("builder/round/winner", nil)
	BuilderRoundEmptyMeter  = metrics.NewRegisteredMeter("builder/round/empty", nil)
	BuilderAcceptedGauge    = metrics.NewRegisteredGauge("builder/accepted", nil)
)

// MetricsRoundCost times a single SimRound call.
func MetricsRoundCost(start time.Time) {
	BuilderRoundTimer.Update(time.Since(start))
}

// MetricsRoundWinner records a round that produced a winner.
func MetricsRoundWinner() {
	BuilderRoundWinnerMeter.Mark(1)
}

// MetricsRoundEmpty records a round where every candidate failed to
// simulate.
func MetricsRoundEmpty() {
	BuilderRoundEmptyMeter.Mark(1)
}

// MetricsAccepted reports the running total of items accepted into the
// block under construction.
func MetricsAccepted(n int) {
	BuilderAcceptedGauge.Update(int64(n))
}
