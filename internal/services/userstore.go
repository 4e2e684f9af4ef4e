// Package services holds the user store: registration, credentials, password
// reset and per-user file metadata. Every operation loads the whole
// collection, mutates it in memory and saves it back.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/filehost/filehost/internal/models"
	"github.com/filehost/filehost/internal/storage"
	"github.com/filehost/filehost/internal/store"
	"github.com/filehost/filehost/pkg/logger"
	"github.com/filehost/filehost/pkg/utils"
)

const DefaultResetTokenTTL = time.Hour

type UserStoreService struct {
	Repo      store.Repository
	Blobs     storage.BlobStore
	Notifier  Notifier
	Passwords utils.PasswordPolicy
	TokenTTL  time.Duration

	// Now and NewToken are swapped out in tests.
	Now      func() time.Time
	NewToken func() (string, error)
}

func NewUserStoreService(repo store.Repository, blobs storage.BlobStore, notifier Notifier, passwords utils.PasswordPolicy, tokenTTL time.Duration) *UserStoreService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultResetTokenTTL
	}
	return &UserStoreService{
		Repo:      repo,
		Blobs:     blobs,
		Notifier:  notifier,
		Passwords: passwords,
		TokenTTL:  tokenTTL,
		Now:       time.Now,
		NewToken:  utils.GenerateResetToken,
	}
}

// EchoesPassword reports whether ChangePassword callers may repeat the new
// password back to the client. Only true for plaintext storage.
func (s *UserStoreService) EchoesPassword() bool {
	return !s.Passwords.Hash
}

func (s *UserStoreService) load(ctx context.Context) ([]models.User, error) {
	users, err := s.Repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading store: %w", err)
	}
	return users, nil
}

func (s *UserStoreService) save(ctx context.Context, users []models.User) error {
	if err := s.Repo.Save(ctx, users); err != nil {
		return fmt.Errorf("saving store: %w", err)
	}
	return nil
}

func findUser(users []models.User, username string) *models.User {
	for i := range users {
		if users[i].Username == username {
			return &users[i]
		}
	}
	return nil
}

func findUserByEmail(users []models.User, email string) *models.User {
	for i := range users {
		if users[i].Email == email {
			return &users[i]
		}
	}
	return nil
}

func (s *UserStoreService) Register(ctx context.Context, username, password, email string) error {
	if username == "" || email == "" {
		return ErrMissingField
	}

	users, err := s.load(ctx)
	if err != nil {
		return err
	}

	if findUser(users, username) != nil || findUserByEmail(users, email) != nil {
		return ErrConflict
	}

	stored, err := s.Passwords.Encode(password)
	if err != nil {
		return fmt.Errorf("encoding password: %w", err)
	}

	users = append(users, models.NewUser(username, stored, email))
	if err := s.save(ctx, users); err != nil {
		return err
	}

	logger.InfoWithUser(username, "user_registered", map[string]interface{}{
		"email": email,
	})
	return nil
}

func (s *UserStoreService) Authenticate(ctx context.Context, username, password string) error {
	users, err := s.load(ctx)
	if err != nil {
		return err
	}

	user := findUser(users, username)
	if user == nil || !s.Passwords.Matches(password, user.Password) {
		return ErrInvalidCredentials
	}
	return nil
}

// RequestPasswordReset stores a fresh token on the account owning email and
// passes it to the notifier. Delivery is not awaited.
func (s *UserStoreService) RequestPasswordReset(ctx context.Context, email string) error {
	users, err := s.load(ctx)
	if err != nil {
		return err
	}

	user := findUserByEmail(users, email)
	if user == nil {
		return ErrNotFound
	}

	token, err := s.NewToken()
	if err != nil {
		return fmt.Errorf("generating reset token: %w", err)
	}
	user.SetResetToken(token, s.Now().Add(s.TokenTTL))
	username := user.Username

	if err := s.save(ctx, users); err != nil {
		return err
	}

	logger.InfoWithUser(username, "password_reset_requested", nil)

	if s.Notifier != nil {
		s.Notifier.Notify(email, token)
	}
	return nil
}

// ChangePassword consumes a reset token and returns the affected username.
func (s *UserStoreService) ChangePassword(ctx context.Context, token, newPassword string) (string, error) {
	users, err := s.load(ctx)
	if err != nil {
		return "", err
	}

	now := s.Now()
	var user *models.User
	for i := range users {
		if users[i].HasValidResetToken(token, now) {
			user = &users[i]
			break
		}
	}
	if user == nil {
		return "", ErrInvalidOrExpiredToken
	}

	stored, err := s.Passwords.Encode(newPassword)
	if err != nil {
		return "", fmt.Errorf("encoding password: %w", err)
	}
	user.Password = stored
	user.ClearResetToken()
	username := user.Username

	if err := s.save(ctx, users); err != nil {
		return "", err
	}

	logger.InfoWithUser(username, "password_changed", nil)
	return username, nil
}

func (s *UserStoreService) AddFile(ctx context.Context, username, displayName, storageFilename string) error {
	users, err := s.load(ctx)
	if err != nil {
		return err
	}

	user := findUser(users, username)
	if user == nil {
		return ErrNotFound
	}
	if user.HasDisplayName(displayName) {
		return ErrConflict
	}

	user.Files = append(user.Files, models.File{
		Filename:     storageFilename,
		Originalname: displayName,
		Shared:       false,
	})
	return s.save(ctx, users)
}

func (s *UserStoreService) ListFiles(ctx context.Context, username string) ([]models.File, error) {
	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	user := findUser(users, username)
	if user == nil {
		return nil, ErrNotFound
	}
	if user.Files == nil {
		return []models.File{}, nil
	}
	return user.Files, nil
}

// FindSharedFile returns the owner and record of a file whose storage name
// matches and which is currently shared.
func (s *UserStoreService) FindSharedFile(ctx context.Context, storageFilename string) (string, models.File, error) {
	users, err := s.load(ctx)
	if err != nil {
		return "", models.File{}, err
	}

	for _, u := range users {
		for _, f := range u.Files {
			if f.Filename == storageFilename && f.Shared {
				return u.Username, f, nil
			}
		}
	}
	return "", models.File{}, ErrFileNotFound
}

// DeleteFile drops the record first and the stored bytes second. The two steps
// are not atomic: if the blob removal fails the record is already gone.
func (s *UserStoreService) DeleteFile(ctx context.Context, username, storageFilename string) error {
	users, err := s.load(ctx)
	if err != nil {
		return err
	}

	user := findUser(users, username)
	if user == nil {
		return ErrNotFound
	}
	idx, _ := user.FileByStorageName(storageFilename)
	if idx == -1 {
		return ErrFileNotFound
	}

	user.Files = append(user.Files[:idx], user.Files[idx+1:]...)
	if err := s.save(ctx, users); err != nil {
		return err
	}

	if s.Blobs == nil {
		return nil
	}
	if err := s.Blobs.Delete(ctx, storageFilename); err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			logger.WarnWithUser(username, "file_bytes_already_missing", map[string]interface{}{
				"filename": storageFilename,
			})
			return nil
		}
		return fmt.Errorf("removing stored bytes: %w", err)
	}
	return nil
}

func (s *UserStoreService) SetShared(ctx context.Context, username, storageFilename string, shared bool) error {
	users, err := s.load(ctx)
	if err != nil {
		return err
	}

	user := findUser(users, username)
	if user == nil {
		return ErrNotFound
	}
	_, file := user.FileByStorageName(storageFilename)
	if file == nil {
		return ErrFileNotFound
	}

	file.Shared = shared
	return s.save(ctx, users)
}
