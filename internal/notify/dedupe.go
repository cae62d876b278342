// ABOUTME: TTL cache suppressing events replayed across SSE reconnects
// ABOUTME: Keyed on the raw event payload; pruned inline on insert

package notify

import (
	"container/list"
	"sync"
	"time"
)

// seenCache tracks event payloads already turned into notifications so a
// reconnect replay does not duplicate them. Insertion order is kept in a
// list for cheap oldest-first eviction.
type seenCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element // key -> element holding seenEntry
	order   *list.List
	ttl     time.Duration
	maxSize int
}

type seenEntry struct {
	key  string
	seen time.Time
}

func newSeenCache(ttl time.Duration, maxSize int) *seenCache {
	return &seenCache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// checkAndMark atomically reports whether the key was already seen within
// the TTL, marking it either way. Expired entries are pruned on the way.
func (c *seenCache) checkAndMark(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.pruneLocked(now)

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*seenEntry)
		if now.Sub(entry.seen) < c.ttl {
			return true
		}
		entry.seen = now
		c.order.MoveToBack(elem)
		return false
	}

	if len(c.entries) >= c.maxSize {
		oldest := c.order.Front()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*seenEntry).key)
		}
	}

	c.entries[key] = c.order.PushBack(&seenEntry{key: key, seen: now})
	return false
}

// pruneLocked drops entries older than the TTL. Must hold mu.
func (c *seenCache) pruneLocked(now time.Time) {
	for {
		front := c.order.Front()
		if front == nil {
			return
		}
		entry := front.Value.(*seenEntry)
		if now.Sub(entry.seen) < c.ttl {
			return
		}
		c.order.Remove(front)
		delete(c.entries, entry.key)
	}
}
