package item

import "context"

// Store is the persistence boundary for items. All operations are scoped
// to a single owner; cross-owner access yields ErrNotFound.
type Store interface {
	List(ctx context.Context, ownerID string) ([]Item, error)
	Count(ctx context.Context, ownerID string) (int64, error)
	Get(ctx context.Context, ownerID string, id int64) (*Item, error)
	Insert(ctx context.Context, ownerID string, d Draft) (*Item, error)
	Update(ctx context.Context, ownerID string, id int64, d Draft) (*Item, error)
	Delete(ctx context.Context, ownerID string, id int64) (*Item, error)
}

// BlobStore is the slice of the storage gateway the service needs for
// best-effort blob cleanup on item removal.
type BlobStore interface {
	Remove(ctx context.Context, key string) error
}
