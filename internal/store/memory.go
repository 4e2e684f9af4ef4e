package store

import (
	"context"
	"sync"

	"github.com/filehost/filehost/internal/models"
)

// MemoryRepository keeps the snapshot in process memory. Used by tests and by
// STORE_BACKEND=memory for throwaway instances.
type MemoryRepository struct {
	mu    sync.Mutex
	users []models.User
}

func NewMemoryRepository(seed ...models.User) *MemoryRepository {
	return &MemoryRepository{users: models.CloneUsers(seed)}
}

func (r *MemoryRepository) Load(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	users := models.CloneUsers(r.users)
	if err := validateSnapshot(users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MemoryRepository) Save(ctx context.Context, users []models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = models.CloneUsers(users)
	return nil
}
