package sim

import (
	"sort"
	"sync"
	"time"

	"github.com/holiman/uint256"

	"github.com/init4tech/signet-node/sys"
)

// DefaultCapacity is the cache's capacity when none is supplied, mirroring
// the original default of 100 entries.
const DefaultCapacity = 100

// minScore is the floor below which an item's score is never worth
// holding: it could not even cover the minimum transaction gas, so
// simulating it would always be wasted work.
var minScore = uint256.NewInt(sys.MinTransactionGas)

// Cache is the builder's candidate pool: a capacity-bounded collection
// of Items keyed by a fee-derived score, read back highest-score-first.
//
// Go has no built-in ordered map; this keeps a sorted slice of scores
// alongside a map, mutated with binary search on insert and remove —
// the same shape as the upstream BTreeMap<u128, SimItem>, since no
// ordered-map library is available to reach for instead.
//
// Grounded on original_source/crates/sim/src/cache.rs's SimCache.
type Cache struct {
	mu       sync.RWMutex
	keys     []uint256.Int // ascending
	items    map[uint256.Int]Item
	capacity int
}

// New returns an empty Cache with DefaultCapacity.
func New() *Cache { return NewWithCapacity(DefaultCapacity) }

// NewWithCapacity returns an empty Cache holding at most capacity items.
func NewWithCapacity(capacity int) *Cache {
	return &Cache{items: make(map[uint256.Int]Item), capacity: capacity}
}

// Len returns the number of items currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keys)
}

// IsEmpty reports whether the cache holds no items.
func (c *Cache) IsEmpty() bool { return c.Len() == 0 }

// Get returns the item stored at score, if any.
func (c *Cache) Get(score uint256.Int) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[score]
	return it, ok
}

// Remove deletes the item stored at score, if any, and reports whether
// one was removed.
func (c *Cache) Remove(score uint256.Int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[score]; !ok {
		return false
	}
	delete(c.items, score)
	c.removeKeyLocked(score)
	return true
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = nil
	c.items = make(map[uint256.Int]Item)
}

// ReadBest returns up to n (score, item) pairs ordered from highest
// score to lowest.
func (c *Cache) ReadBest(n int) []ScoredItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n > len(c.keys) {
		n = len(c.keys)
	}
	out := make([]ScoredItem, 0, n)
	for i := 0; i < n; i++ {
		k := c.keys[len(c.keys)-1-i]
		out = append(out, ScoredItem{Score: k, Item: c.items[k]})
	}
	return out
}

// ScoredItem pairs a cached Item with the score it was inserted under.
type ScoredItem struct {
	Score uint256.Int
	Item  Item
}

// AddItem scores item at basefee and inserts it. Items scoring below
// the minimum transaction gas are silently discarded as a sanity check
// that should never trigger in practice. A score collision is resolved
// by decrementing the candidate score until a free slot is found (or it
// reaches zero, in which case the existing zero-score entry is
// overwritten), which has the effect of prioritizing earlier insertions
// at an equal fee. If the cache is over capacity after insertion, the
// lowest-scoring item is evicted.
func (c *Cache) AddItem(item Item, basefee uint64) {
	score := item.CalculateTotalFee(basefee)
	if score.Cmp(minScore) < 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		if _, exists := c.items[*score]; !exists || score.IsZero() {
			break
		}
		score = new(uint256.Int).Sub(score, uint256.NewInt(1))
	}

	c.insertLocked(*score, item)
	MetricsCacheInsert()
	if len(c.keys) > c.capacity {
		c.evictLowestLocked()
	}
	MetricsCacheSize(len(c.keys))
}

// Clean evicts bundle items no longer valid for the block under
// construction: a mismatched target block number, or a timestamp
// window that excludes blockTimestamp. Non-bundle items are never
// evicted by cleaning. Also trims the cache back down to capacity if it
// is somehow over, mirroring the upstream's defensive re-check.
func (c *Cache) Clean(blockNumber, blockTimestamp uint64) {
	defer MetricsCacheCleanCost(time.Now())
	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.keys) > c.capacity {
		c.evictLowestLocked()
	}

	var kept []uint256.Int
	evicted := 0
	for _, k := range c.keys {
		it := c.items[k]
		if it.Kind() != KindBundle {
			kept = append(kept, k)
			continue
		}
		b := it.AsBundle()
		if !b.IsValidAtBlockNumber(blockNumber) {
			delete(c.items, k)
			evicted++
			continue
		}
		if !b.IsValidAtTimestamp(blockTimestamp) {
			delete(c.items, k)
			evicted++
			continue
		}
		kept = append(kept, k)
	}
	c.keys = kept
	MetricsCacheEvict(evicted)
	MetricsCacheSize(len(c.keys))
}

func (c *Cache) insertLocked(score uint256.Int, item Item) {
	if _, exists := c.items[score]; !exists {
		i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].Cmp(&score) >= 0 })
		c.keys = append(c.keys, uint256.Int{})
		copy(c.keys[i+1:], c.keys[i:])
		c.keys[i] = score
	}
	c.items[score] = item
}

func (c *Cache) removeKeyLocked(score uint256.Int) {
	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].Cmp(&score) >= 0 })
	if i < len(c.keys) && c.keys[i].Cmp(&score) == 0 {
		c.keys = append(c.keys[:i], c.keys[i+1:]...)
	}
}

// evictLowestLocked drops the single lowest-scoring item, the
// bounded-capacity analogue of BTreeMap::pop_first.
func (c *Cache) evictLowestLocked() {
	if len(c.keys) == 0 {
		return
	}
	lowest := c.keys[0]
	delete(c.items, lowest)
	c.keys = c.keys[1:]
}
