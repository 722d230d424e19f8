// Package storage abstracts the object store holding gallery photo binaries.
// Production runs against an S3-compatible bucket; tests and local
// development use a filesystem backend.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/rixeldev/studio-api/config"
)

// Storage is the interface the upload and delete pipelines operate against.
// Save overwrites any existing object at the path, so re-uploading a photo
// with the same derived code is idempotent.
type Storage interface {
	// Save stores an object at path, replacing any previous content.
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error

	// Delete removes the object at path. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether an object is present at path.
	Exists(ctx context.Context, path string) (bool, error)

	// PublicURL resolves the public URL clients fetch the object from.
	PublicURL(path string) string
}

// New creates a storage backend from application configuration.
func New(cfg config.AppConfig) (Storage, error) {
	switch cfg.StorageType {
	case "local":
		return NewLocalStorage(cfg.StoragePath, cfg.StorageBaseURL)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
