package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const (
	resetTokenBytes = 32
	resetTokenTTL   = 24 * time.Hour
)

// NewResetToken returns a fresh password-reset token in plain form.
// Only its sha256 hash is stored; the plain token goes out by email
// and is never seen again.
func NewResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashToken derives the storable form of a reset token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenExpiry returns the expiry timestamp for a token issued now.
func TokenExpiry() time.Time { return time.Now().Add(resetTokenTTL) }

func TokenExpired(expiresAt time.Time) bool { return expiresAt.Before(time.Now()) }
