package mail

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Token lifetimes.
const (
	VerificationTTL = 24 * time.Hour
	ResetTTL        = time.Hour
)

const tokenBytes = 32

// NewToken returns a random hex secret and the digest to store for it.
func NewToken() (token, digest string, err error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate token: %w", err)
	}
	token = hex.EncodeToString(buf)
	return token, Digest(token), nil
}

// Digest returns the stored form of a token.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
