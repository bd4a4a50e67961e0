// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"net/url"
	"path"
	"time"
)

// UploadTarget describes a short-lived, single-use pre-signed upload slot.
type UploadTarget struct {
	SignedURL string
	ExpiresIn time.Duration
}

// Storage is the interface for presigning uploads and removing objects.
type Storage interface {
	// PresignUpload issues a pre-signed PUT URL for a fresh object key.
	// The URL is valid for a short fixed window; nothing is written until
	// the caller actually uses it.
	PresignUpload(ctx context.Context) (*UploadTarget, error)
	// Remove deletes the object identified by key.
	Remove(ctx context.Context, key string) error
}

// KeyFromURL maps a stored public object URL back to its storage key by
// taking the trailing path segment with any query string stripped. Returns
// "" when the URL carries no usable segment. If the key scheme ever stops
// being a single path segment, URLs stored under the old scheme will no
// longer resolve here.
func KeyFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	key := path.Base(u.Path)
	if key == "." || key == "/" {
		return ""
	}
	return key
}
