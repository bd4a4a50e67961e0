package client

import (
	"sync"
	"time"

	"github.com/wardrobe/service/internal/identity"
	"github.com/wardrobe/service/internal/item"
)

// staleAfter is how long a cached items/total snapshot is served before a
// refetch is allowed. The identity snapshot never goes stale: it cannot
// change without a new login.
const staleAfter = 5 * time.Minute

// timeNow is swapped in tests to control staleness.
var timeNow = time.Now

// Cache is the client's mirror of the server state. It is an explicit,
// owned object: only the controller mutates it, and every read hands out
// copies so callers cannot alias the internal slices.
type Cache struct {
	mu sync.Mutex

	items       []item.Item
	itemsSet    bool
	itemsAt     time.Time
	total       int64
	totalSet    bool
	totalAt     time.Time
	user        *identity.Identity
	placeholder *item.Draft
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Items returns the cached snapshot and whether it is present and fresh.
func (c *Cache) Items() ([]item.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.itemsSet || timeNow().Sub(c.itemsAt) > staleAfter {
		return nil, false
	}
	return append([]item.Item(nil), c.items...), true
}

// SetItems replaces the confirmed-items snapshot.
func (c *Cache) SetItems(items []item.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]item.Item(nil), items...)
	c.itemsSet = true
	c.itemsAt = timeNow()
}

// ReplaceByID swaps the entry matching it.ID in place. A miss is a no-op.
func (c *Cache) ReplaceByID(it item.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == it.ID {
			c.items[i] = it
			return
		}
	}
}

// RemoveByID drops the entry matching id from the snapshot.
func (c *Cache) RemoveByID(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Total returns the cached count and whether it is present and fresh.
func (c *Cache) Total() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.totalSet || timeNow().Sub(c.totalAt) > staleAfter {
		return 0, false
	}
	return c.total, true
}

// SetTotal stores the authoritative count.
func (c *Cache) SetTotal(total int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total = total
	c.totalSet = true
	c.totalAt = timeNow()
}

// InvalidateTotal drops the cached count so the next read refetches.
func (c *Cache) InvalidateTotal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalSet = false
}

// Identity returns the cached identity, if any.
func (c *Cache) Identity() (*identity.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil, false
	}
	u := *c.user
	return &u, true
}

// SetIdentity stores the identity for the rest of the session.
func (c *Cache) SetIdentity(u *identity.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *u
	c.user = &cp
}

// SetPlaceholder writes the loading slot rendered in place of an
// in-flight create/edit.
func (c *Cache) SetPlaceholder(d *item.Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d == nil {
		c.placeholder = nil
		return
	}
	cp := *d
	c.placeholder = &cp
}

// Placeholder returns the current loading slot, if any.
func (c *Cache) Placeholder() (*item.Draft, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.placeholder == nil {
		return nil, false
	}
	cp := *c.placeholder
	return &cp, true
}

// ClearPlaceholder drops the loading slot. Safe to call when none is set.
func (c *Cache) ClearPlaceholder() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.placeholder = nil
}
