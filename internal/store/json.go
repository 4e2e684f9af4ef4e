package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/filehost/filehost/internal/models"
	"github.com/filehost/filehost/pkg/logger"
)

// JSONFileRepository stores the collection as a single JSON array on disk.
type JSONFileRepository struct {
	path string
}

// NewJSONFileRepository opens path, creating it with an empty array when absent.
func NewJSONFileRepository(path string) (*JSONFileRepository, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, err
		}
		logger.Info("store_file_created", map[string]interface{}{"path": path})
	} else if err != nil {
		return nil, err
	}
	return &JSONFileRepository{path: path}, nil
}

func (r *JSONFileRepository) Path() string {
	return r.path
}

func (r *JSONFileRepository) Load(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("reading store: %w", err)
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}
	if users == nil {
		return nil, fmt.Errorf("%w: document is not an array", ErrStoreCorrupt)
	}
	if err := validateSnapshot(users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *JSONFileRepository) Save(ctx context.Context, users []models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if users == nil {
		users = []models.User{}
	}

	data, err := json.Marshal(users)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp store file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing store: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing store: %w", err)
	}
	return nil
}
