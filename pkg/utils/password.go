package utils

import "golang.org/x/crypto/bcrypt"

// PasswordPolicy decides how passwords are stored and compared.
//
// The zero value stores passwords verbatim and compares them by exact string
// equality. That is a known defect kept for compatibility with existing
// stores; set Hash to store bcrypt hashes instead.
type PasswordPolicy struct {
	Hash bool
}

func (p PasswordPolicy) Encode(password string) (string, error) {
	if !p.Hash {
		return password, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (p PasswordPolicy) Matches(password, stored string) bool {
	if !p.Hash {
		return password == stored
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
