// Package service defines interfaces for domain services implemented by the infrastructure layer.
package service

import (
	"context"
	"time"
)

// FileStore abstracts the blob store that holds raw uploaded track files.
type FileStore interface {
	// Put writes blob bytes under the given key with the given content type.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Delete removes the blob stored under key.
	Delete(ctx context.Context, key string) error

	// SignedGetURL returns a time-limited download URL for the blob under
	// key. downloadFilename is offered to the browser as the saved name.
	SignedGetURL(ctx context.Context, key string, ttl time.Duration, downloadFilename string) (string, error)
}
