package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// ResetTokenBytes is the amount of entropy in a password reset token (160 bits).
const ResetTokenBytes = 20

// GenerateResetToken returns a hex-encoded random token of ResetTokenBytes bytes.
func GenerateResetToken() (string, error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
