package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// listCap bounds how many items a single list call returns.
const listCap = 100

// Repository is the pgx-backed Store implementation.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const itemColumns = `id, user_id, name, type, size, color, image_url, created_at`

func scanItem(row pgx.Row) (*Item, error) {
	it := &Item{}
	err := row.Scan(&it.ID, &it.OwnerID, &it.Name, &it.Type, &it.Size, &it.Color, &it.ImageURL, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// List returns the owner's items, newest-created first, capped at 100.
func (r *Repository) List(ctx context.Context, ownerID string) ([]Item, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+itemColumns+`
		 FROM items WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		ownerID, listCap,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Count returns the total number of items the owner has.
func (r *Repository) Count(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM items WHERE user_id = $1`, ownerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// Get fetches a single item by id, scoped to the owner.
func (r *Repository) Get(ctx context.Context, ownerID string, id int64) (*Item, error) {
	it, err := scanItem(r.db.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM items WHERE user_id = $1 AND id = $2`,
		ownerID, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// Insert stores a new item and returns it with the assigned id and timestamp.
func (r *Repository) Insert(ctx context.Context, ownerID string, d Draft) (*Item, error) {
	it, err := scanItem(r.db.QueryRow(ctx,
		`INSERT INTO items (user_id, name, type, size, color, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+itemColumns,
		ownerID, d.Name, d.Type, d.Size, d.Color, d.ImageURL,
	))
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return it, nil
}

// Update replaces the caller-supplied fields of an existing item.
func (r *Repository) Update(ctx context.Context, ownerID string, id int64, d Draft) (*Item, error) {
	it, err := scanItem(r.db.QueryRow(ctx,
		`UPDATE items
		 SET name = $3, type = $4, size = $5, color = $6, image_url = $7
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+itemColumns,
		ownerID, id, d.Name, d.Type, d.Size, d.Color, d.ImageURL,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return it, nil
}

// Delete removes an item and returns the deleted record so the caller can
// clean up the associated blob.
func (r *Repository) Delete(ctx context.Context, ownerID string, id int64) (*Item, error) {
	it, err := scanItem(r.db.QueryRow(ctx,
		`DELETE FROM items WHERE user_id = $1 AND id = $2
		 RETURNING `+itemColumns,
		ownerID, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete item: %w", err)
	}
	return it, nil
}
