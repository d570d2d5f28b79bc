package query

import (
	"context"
	"time"
)

// Run evicts unused slots until ctx is done. Slots with subscribers are
// never evicted.
func (c *Cache[K, V]) Run(ctx context.Context) {
	interval := c.opts.GCTime / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.sweep(); n > 0 {
				c.opts.Logger.Debug("query cache sweep", "evicted", n)
			}
		}
	}
}

func (c *Cache[K, V]) sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-c.opts.GCTime)
	n := 0
	for k, e := range c.entries {
		if len(e.subs) == 0 && e.lastUsed.Before(cutoff) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}
