package models

import (
	"errors"
	"fmt"
	"time"
)

// User is one record of the store. Field names match the persisted JSON document.
type User struct {
	Username         string  `json:"username"`
	Password         string  `json:"password"`
	Email            string  `json:"email"`
	Files            []File  `json:"files"`
	ResetToken       *string `json:"resetToken"`
	ResetTokenExpiry *int64  `json:"resetTokenExpiry"` // unix milliseconds
}

func NewUser(username, password, email string) User {
	return User{
		Username: username,
		Password: password,
		Email:    email,
		Files:    []File{},
	}
}

// SetResetToken records token with an expiry at the given instant.
func (u *User) SetResetToken(token string, expiresAt time.Time) {
	ms := expiresAt.UnixMilli()
	u.ResetToken = &token
	u.ResetTokenExpiry = &ms
}

func (u *User) ClearResetToken() {
	u.ResetToken = nil
	u.ResetTokenExpiry = nil
}

// HasValidResetToken reports whether token matches the stored one and now is
// strictly before its expiry.
func (u *User) HasValidResetToken(token string, now time.Time) bool {
	if u.ResetToken == nil || u.ResetTokenExpiry == nil {
		return false
	}
	return *u.ResetToken == token && *u.ResetTokenExpiry > now.UnixMilli()
}

func (u *User) FileByStorageName(filename string) (int, *File) {
	for i := range u.Files {
		if u.Files[i].Filename == filename {
			return i, &u.Files[i]
		}
	}
	return -1, nil
}

func (u *User) HasDisplayName(originalname string) bool {
	for _, f := range u.Files {
		if f.Originalname == originalname {
			return true
		}
	}
	return false
}

var (
	errMissingUsername = errors.New("missing username")
	errMissingEmail    = errors.New("missing email")
	errMissingFiles    = errors.New("missing files")
	errTokenMismatch   = errors.New("resetToken and resetTokenExpiry must be set together")
)

// Validate checks the record has every field the store relies on.
func (u *User) Validate() error {
	if u.Username == "" {
		return errMissingUsername
	}
	if u.Email == "" {
		return fmt.Errorf("user %q: %w", u.Username, errMissingEmail)
	}
	if u.Files == nil {
		return fmt.Errorf("user %q: %w", u.Username, errMissingFiles)
	}
	if (u.ResetToken == nil) != (u.ResetTokenExpiry == nil) {
		return fmt.Errorf("user %q: %w", u.Username, errTokenMismatch)
	}
	for i := range u.Files {
		if err := u.Files[i].Validate(); err != nil {
			return fmt.Errorf("user %q file %d: %w", u.Username, i, err)
		}
	}
	return nil
}

// Clone returns a deep copy so snapshots never share backing arrays or pointers.
func (u User) Clone() User {
	out := u
	out.Files = make([]File, len(u.Files))
	copy(out.Files, u.Files)
	if u.ResetToken != nil {
		token := *u.ResetToken
		out.ResetToken = &token
	}
	if u.ResetTokenExpiry != nil {
		expiry := *u.ResetTokenExpiry
		out.ResetTokenExpiry = &expiry
	}
	return out
}

func CloneUsers(users []User) []User {
	out := make([]User, len(users))
	for i := range users {
		out[i] = users[i].Clone()
	}
	return out
}
