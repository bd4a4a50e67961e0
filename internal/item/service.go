package item

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/wardrobe/service/internal/storage"
)

// Service contains business logic for the item catalog: payload validation
// ahead of persistence, and blob cleanup coordination on removal.
type Service struct {
	store Store
	blobs BlobStore
}

// NewService creates a new item Service.
func NewService(store Store, blobs BlobStore) *Service {
	return &Service{store: store, blobs: blobs}
}

// List returns the owner's items, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Item, error) {
	return s.store.List(ctx, ownerID)
}

// Count returns the owner's total item count.
func (s *Service) Count(ctx context.Context, ownerID string) (int64, error) {
	return s.store.Count(ctx, ownerID)
}

// Get returns one item by id.
func (s *Service) Get(ctx context.Context, ownerID string, id int64) (*Item, error) {
	return s.store.Get(ctx, ownerID, id)
}

// Create validates the draft and persists a new item.
func (s *Service) Create(ctx context.Context, ownerID string, d Draft) (*Item, error) {
	if verr := Validate(d); verr != nil {
		return nil, verr
	}
	it, err := s.store.Insert(ctx, ownerID, d)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return it, nil
}

// Update validates the draft and replaces the stored item's fields.
func (s *Service) Update(ctx context.Context, ownerID string, id int64, d Draft) (*Item, error) {
	if verr := Validate(d); verr != nil {
		return nil, verr
	}
	it, err := s.store.Update(ctx, ownerID, id, d)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// Delete removes the item and then makes a best-effort attempt to remove
// its blob. The database row is authoritative: once it is gone the delete
// has succeeded, and a storage failure only leaves an orphaned blob behind.
func (s *Service) Delete(ctx context.Context, ownerID string, id int64) (*Item, error) {
	it, err := s.store.Delete(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if key := storage.KeyFromURL(it.ImageURL); key != "" {
		if err := s.blobs.Remove(ctx, key); err != nil {
			log.Printf("item: blob cleanup failed for %q: %v", key, err)
		}
	}

	return it, nil
}

// IsNotFound reports whether the error indicates a missing item.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
