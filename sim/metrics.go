package sim

import (
	"time"

	"github.com/ethereum/go-ethereum/metrics"
)

// metrics
var (
	SimCacheSizeGauge   = metrics.NewRegisteredGauge("sim/cache/size", nil)
	SimCacheInsertMeter = metrics.NewRegisteredMeter("sim/cache/insert", nil)
	SimCacheEvictMeter  = metrics.NewRegisteredMeter("sim/cache/evict", nil)
	SimCacheCleanTimer  = metrics.NewRegisteredTimer("sim/cache/clean", nil)
	SimBlockSealTimer   = metrics.NewRegisteredTimer("sim/block/seal", nil)
)

// MetricsCacheSize reports the cache's current item count.
func MetricsCacheSize(n int) {
	SimCacheSizeGauge.Update(int64(n))
}

// MetricsCacheInsert records an item entering the cache.
func MetricsCacheInsert() {
	SimCacheInsertMeter.Mark(1)
}

// MetricsCacheEvict records the bundle items Clean evicts for an invalid
// block number or timestamp. Capacity evictions are not counted.
func MetricsCacheEvict(n int) {
	SimCacheEvictMeter.Mark(int64(n))
}

// MetricsCacheCleanCost times a Clean pass.
func MetricsCacheCleanCost(start time.Time) {
	SimCacheCleanTimer.Update(time.Since(start))
}

// MetricsBlockSealCost times a BuiltBlock.seal call.
func MetricsBlockSealCost(start time.Time) {
	SimBlockSealTimer.Update(time.Since(start))
}
