package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/filehost/filehost/internal/config"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrInvalidName  = errors.New("invalid blob name")
)

// BlobStore holds uploaded file bytes keyed by storage filename.
type BlobStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	// Get returns ErrBlobNotFound when nothing is stored under name.
	Get(ctx context.Context, name string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, name string) error
}

// Open builds the blob store selected by BLOB_BACKEND.
func Open(ctx context.Context, blobCfg config.BlobConfig, minioCfg config.MinIOConfig) (BlobStore, error) {
	switch blobCfg.Backend {
	case "", "disk":
		return NewDiskStore(blobCfg.UploadsDir)
	case "minio", "s3":
		client, err := NewMinIOStore(minioCfg)
		if err != nil {
			return nil, err
		}
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", blobCfg.Backend)
	}
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
