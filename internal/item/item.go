// Package item manages the per-user wardrobe catalog and its persistence.
package item

import (
	"errors"
	"time"

	"github.com/wardrobe/service/internal/validate"
)

// Item represents one wardrobe garment. ID and CreatedAt are assigned by
// the database at insert time and never change afterwards.
type Item struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"userId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// Draft carries the caller-supplied fields of an item. The same rules run
// in the API service and in the client-side form for immediate feedback;
// the server remains authoritative.
type Draft struct {
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type" validate:"required"`
	Size     string `json:"size" validate:"required"`
	Color    string `json:"color" validate:"required"`
	ImageURL string `json:"imageUrl" validate:"required,url"`
}

// ErrNotFound is returned when an item does not exist for the given owner.
// A cross-owner id resolves to the same error so existence never leaks.
var ErrNotFound = errors.New("item not found")

// ValidationError reports the first failure per field, keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Validate checks every field of the draft.
func Validate(d Draft) *ValidationError {
	if fields := validate.Struct(d); fields != nil {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ValidateForm checks the form-entered fields only; the image URL is
// resolved later in the submission, after the blob upload.
func ValidateForm(d Draft) *ValidationError {
	if fields := validate.StructExcept(d, "ImageURL"); fields != nil {
		return &ValidationError{Fields: fields}
	}
	return nil
}
