package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobe/service/internal/identity"
	"github.com/wardrobe/service/internal/item"
)

func fixedClock(t *testing.T, at time.Time) *time.Time {
	t.Helper()
	now := at
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = time.Now })
	return &now
}

func TestCacheEmptyReadsMiss(t *testing.T) {
	c := NewCache()

	_, ok := c.Items()
	assert.False(t, ok)
	_, ok = c.Total()
	assert.False(t, ok)
	_, ok = c.Identity()
	assert.False(t, ok)
	_, ok = c.Placeholder()
	assert.False(t, ok)
}

func TestItemsGoStaleAfterWindow(t *testing.T) {
	now := fixedClock(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	c := NewCache()
	c.SetItems([]item.Item{{ID: 1, Name: "T-Shirt"}})

	_, ok := c.Items()
	assert.True(t, ok)

	*now = now.Add(staleAfter)
	_, ok = c.Items()
	assert.True(t, ok, "exactly at the window the snapshot is still fresh")

	*now = now.Add(time.Second)
	_, ok = c.Items()
	assert.False(t, ok)
}

func TestTotalGoesStaleIndependently(t *testing.T) {
	now := fixedClock(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	c := NewCache()
	c.SetItems([]item.Item{{ID: 1}})
	*now = now.Add(3 * time.Minute)
	c.SetTotal(7)

	*now = now.Add(staleAfter - time.Minute)
	_, ok := c.Items()
	assert.False(t, ok)
	total, ok := c.Total()
	assert.True(t, ok)
	assert.Equal(t, int64(7), total)
}

func TestIdentityNeverGoesStale(t *testing.T) {
	now := fixedClock(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	c := NewCache()
	c.SetIdentity(&identity.Identity{ID: "kp_1234", GivenName: "Kim"})

	*now = now.Add(48 * time.Hour)
	u, ok := c.Identity()
	require.True(t, ok)
	assert.Equal(t, "Kim", u.GivenName)
}

func TestItemsReadsHandOutCopies(t *testing.T) {
	c := NewCache()
	c.SetItems([]item.Item{{ID: 1, Name: "T-Shirt"}})

	got, ok := c.Items()
	require.True(t, ok)
	got[0].Name = "mutated"

	again, ok := c.Items()
	require.True(t, ok)
	assert.Equal(t, "T-Shirt", again[0].Name)
}

func TestReplaceByID(t *testing.T) {
	c := NewCache()
	c.SetItems([]item.Item{{ID: 3, Name: "Hat"}, {ID: 1, Name: "T-Shirt"}})

	c.ReplaceByID(item.Item{ID: 1, Name: "Polo"})
	items, _ := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Hat", items[0].Name)
	assert.Equal(t, "Polo", items[1].Name)

	// A miss is a no-op.
	c.ReplaceByID(item.Item{ID: 99, Name: "Ghost"})
	items, _ = c.Items()
	assert.Len(t, items, 2)
}

func TestRemoveByID(t *testing.T) {
	c := NewCache()
	c.SetItems([]item.Item{{ID: 3}, {ID: 2}, {ID: 1}})

	c.RemoveByID(2)
	items, _ := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(3), items[0].ID)
	assert.Equal(t, int64(1), items[1].ID)

	c.RemoveByID(42)
	items, _ = c.Items()
	assert.Len(t, items, 2)
}

func TestInvalidateTotal(t *testing.T) {
	c := NewCache()
	c.SetTotal(5)
	c.InvalidateTotal()

	_, ok := c.Total()
	assert.False(t, ok)
}

func TestPlaceholderLifecycle(t *testing.T) {
	c := NewCache()

	c.SetPlaceholder(&item.Draft{Name: "Red Scarf", Type: "scarf", Size: "M", Color: "Red"})
	p, ok := c.Placeholder()
	require.True(t, ok)
	assert.Equal(t, "Red Scarf", p.Name)

	// The handed-out copy does not alias the stored slot.
	p.Name = "mutated"
	p2, _ := c.Placeholder()
	assert.Equal(t, "Red Scarf", p2.Name)

	c.ClearPlaceholder()
	_, ok = c.Placeholder()
	assert.False(t, ok)

	// Clearing an empty slot is safe.
	c.ClearPlaceholder()
}
