// Package storage persists uploaded catalog images on a local directory or an
// S3-compatible bucket and turns stored names into public URLs.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("storage: file not found")

// Disk is a flat blob store addressed by slash-separated paths.
type Disk interface {
	// Put writes r to path, replacing any existing content.
	Put(ctx context.Context, path string, r io.Reader) error
	// Get returns ErrNotFound when nothing is stored at path.
	Get(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
	// Delete is a no-op for a missing path.
	Delete(ctx context.Context, path string) error
}
