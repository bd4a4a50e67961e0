package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/wardrobe/service/internal/identity"
	"github.com/wardrobe/service/internal/item"
)

// ErrDeletePending is returned when a delete for the same id is already
// in flight; the triggering control stays disabled until it settles.
var ErrDeletePending = errors.New("delete already pending for item")

// Notifier receives toast-style notifications from the controller.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// logNotifier is the default Notifier; it writes to the standard logger.
type logNotifier struct{}

func (logNotifier) Success(message string) { log.Printf("ok: %s", message) }
func (logNotifier) Error(message string)   { log.Printf("error: %s", message) }

// Controller coordinates the optimistic item lifecycle: it owns the cache,
// runs the two-phase upload (signed URL, then direct blob PUT, then
// metadata), and reconciles the cache with the server-confirmed record or
// rolls the optimistic state back on failure.
type Controller struct {
	api      *API
	cache    *Cache
	notify   Notifier
	navigate func(view string)

	mu       sync.Mutex
	deleting map[int64]bool
}

// NewController wires a controller. notify and navigate may be nil.
func NewController(api *API, cache *Cache, notify Notifier, navigate func(view string)) *Controller {
	if notify == nil {
		notify = logNotifier{}
	}
	if navigate == nil {
		navigate = func(string) {}
	}
	return &Controller{
		api:      api,
		cache:    cache,
		notify:   notify,
		navigate: navigate,
		deleting: make(map[int64]bool),
	}
}

// Cache exposes the owned cache for read-only rendering.
func (c *Controller) Cache() *Cache { return c.cache }

// Items serves the cached snapshot while fresh and refetches otherwise.
func (c *Controller) Items(ctx context.Context) ([]item.Item, error) {
	if items, ok := c.cache.Items(); ok {
		return items, nil
	}
	items, err := c.api.Items(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetItems(items)
	return items, nil
}

// Total serves the cached count while fresh and refetches otherwise.
func (c *Controller) Total(ctx context.Context) (int64, error) {
	if total, ok := c.cache.Total(); ok {
		return total, nil
	}
	total, err := c.api.Total(ctx)
	if err != nil {
		return 0, err
	}
	c.cache.SetTotal(total)
	return total, nil
}

// Me serves the identity from cache for the rest of the session; identity
// cannot change without a new login.
func (c *Controller) Me(ctx context.Context) (*identity.Identity, error) {
	if u, ok := c.cache.Identity(); ok {
		return u, nil
	}
	u, err := c.api.Me(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetIdentity(u)
	return u, nil
}

// SubmitCreate runs one create submission end to end: snapshot, navigate,
// placeholder, optional blob upload, metadata POST, reconcile. The
// confirmed snapshot is only touched on success; the placeholder is
// cleared on every exit path.
func (c *Controller) SubmitCreate(ctx context.Context, s *Session, d item.Draft) (*item.Item, error) {
	if verr := item.ValidateForm(d); verr != nil {
		s.settle(verr)
		return nil, verr
	}

	snapshot, err := c.Items(ctx)
	if err != nil {
		s.settle(err)
		c.notify.Error("Failed to create a new item")
		return nil, err
	}

	// Navigate before writing the placeholder so the user lands on the
	// collection view already showing the action as accepted.
	c.navigate("/items")
	c.cache.SetPlaceholder(&d)
	defer c.cache.ClearPlaceholder()

	imageURL, err := c.resolveImage(ctx, s, d.ImageURL)
	if err != nil {
		s.settle(err)
		c.notify.Error("Failed to create a new item")
		return nil, err
	}

	s.phase = PhaseSubmittingMetadata
	d.ImageURL = imageURL
	created, err := c.api.Create(ctx, d)
	if err != nil {
		s.settle(err)
		c.notify.Error("Failed to create a new item")
		return nil, err
	}

	c.cache.SetItems(append([]item.Item{*created}, snapshot...))
	c.notify.Success(fmt.Sprintf("Successfully created a new item: %s", created.Name))
	s.settle(nil)
	return created, nil
}

// SubmitEdit runs one edit submission. With no newly picked file the
// stored image URL is carried forward unchanged.
func (c *Controller) SubmitEdit(ctx context.Context, s *Session, id int64, d item.Draft) (*item.Item, error) {
	if verr := item.ValidateForm(d); verr != nil {
		s.settle(verr)
		return nil, verr
	}

	snapshot, err := c.Items(ctx)
	if err != nil {
		s.settle(err)
		c.notify.Error("Failed to update item")
		return nil, err
	}

	c.navigate("/items")
	c.cache.SetPlaceholder(&d)
	defer c.cache.ClearPlaceholder()

	imageURL, err := c.resolveImage(ctx, s, d.ImageURL)
	if err != nil {
		s.settle(err)
		c.notify.Error("Failed to update item")
		return nil, err
	}

	s.phase = PhaseSubmittingMetadata
	d.ImageURL = imageURL
	updated, err := c.api.Update(ctx, id, d)
	if err != nil {
		s.settle(err)
		c.notify.Error("Failed to update item")
		return nil, err
	}

	for i := range snapshot {
		if snapshot[i].ID == updated.ID {
			snapshot[i] = *updated
		}
	}
	c.cache.SetItems(snapshot)
	c.notify.Success(fmt.Sprintf("Successfully updated item: %s", updated.Name))
	s.settle(nil)
	return updated, nil
}

// resolveImage runs the blob phase of a submission. With a picked file it
// acquires a signed target and PUTs the raw bytes; the metadata call never
// proceeds past a failed upload. Without one it returns current unchanged.
func (c *Controller) resolveImage(ctx context.Context, s *Session, current string) (string, error) {
	if s == nil || s.File() == nil {
		return current, nil
	}

	s.phase = PhaseUploadingBlob
	signedURL, err := c.api.SignedURL(ctx)
	if err != nil {
		return "", err
	}
	if err := c.api.UploadBlob(ctx, signedURL, s.File()); err != nil {
		return "", err
	}

	// The stored URL is the signed URL with its capability query stripped.
	return strings.SplitN(signedURL, "?", 2)[0], nil
}

// Delete removes one item. While a delete for the id is pending the id is
// busy and a duplicate submission is rejected. On success the item leaves
// the snapshot and the cached total is replaced with a freshly fetched
// authoritative count rather than decremented arithmetic on a stale value.
func (c *Controller) Delete(ctx context.Context, id int64, name string) error {
	c.mu.Lock()
	if c.deleting[id] {
		c.mu.Unlock()
		return ErrDeletePending
	}
	c.deleting[id] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.deleting, id)
		c.mu.Unlock()
	}()

	if _, err := c.api.Delete(ctx, id); err != nil {
		c.notify.Error(fmt.Sprintf("Failed to delete item: %s", name))
		return err
	}

	c.cache.RemoveByID(id)

	if total, err := c.api.Total(ctx); err == nil {
		c.cache.SetTotal(total)
	} else {
		c.cache.InvalidateTotal()
		log.Printf("client: total refresh after delete failed: %v", err)
	}

	c.notify.Success(fmt.Sprintf("Item was successfully deleted: %s", name))
	return nil
}

// Deleting reports whether a delete for id is currently pending.
func (c *Controller) Deleting(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleting[id]
}
