// Package store persists the user collection as one snapshot.
//
// Every implementation honours the same contract: Load returns the full
// collection and Save replaces it wholesale. Callers own the slices they pass
// in and get back.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/filehost/filehost/internal/models"
)

// ErrStoreCorrupt is returned by Load when persisted records are unreadable or
// miss required fields.
var ErrStoreCorrupt = errors.New("store corrupt")

type Repository interface {
	Load(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, users []models.User) error
}

func validateSnapshot(users []models.User) error {
	for i := range users {
		if err := users[i].Validate(); err != nil {
			return fmt.Errorf("%w: record %d: %v", ErrStoreCorrupt, i, err)
		}
	}
	return nil
}
