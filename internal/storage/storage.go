// Package storage persists recipe images. Keys are opaque, server-generated
// paths like "uploads/recipe/<uuid>.jpg"; the backends never see original
// filenames.
package storage

import "context"

type Store interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns a location a client can fetch the object from.
	URL(ctx context.Context, key string) (string, error)
}
