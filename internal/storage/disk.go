package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/filehost/filehost/pkg/logger"
)

// DiskStore keeps each blob as a regular file inside one directory.
type DiskStore struct {
	baseDir string
}

func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{baseDir: baseDir}, nil
}

func (d *DiskStore) path(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	return filepath.Join(d.baseDir, name), nil
}

func (d *DiskStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := d.path(name)
	if err != nil {
		return err
	}

	dst, err := os.Create(p)
	if err != nil {
		return err
	}

	written, err := io.Copy(dst, r)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(p)
		logger.Error("disk_upload_failed", err, map[string]interface{}{
			"name": name,
			"size": size,
		})
		return err
	}

	logger.Info("disk_upload_success", map[string]interface{}{
		"name":         name,
		"size":         written,
		"content_type": contentType,
	})
	return nil
}

func (d *DiskStore) Get(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	p, err := d.path(name)
	if err != nil {
		return nil, 0, ErrBlobNotFound
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, ErrBlobNotFound
		}
		return nil, 0, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	if info.IsDir() {
		f.Close()
		return nil, 0, ErrBlobNotFound
	}
	return f, info.Size(), nil
}

func (d *DiskStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := d.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrBlobNotFound, name)
		}
		logger.Error("disk_delete_failed", err, map[string]interface{}{"name": name})
		return err
	}

	logger.Info("disk_delete_success", map[string]interface{}{"name": name})
	return nil
}
