package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TokenByteLength is the entropy of an access token before encoding.
const TokenByteLength = 32

// Token is a server-side record of an issued access token. Only the SHA-256
// digest is stored; the plaintext is returned to the client exactly once at
// issue time and cannot be recovered afterwards.
type Token struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Digest    string
	CreatedAt time.Time
}

// NewToken mints a fresh opaque token for a user. It returns the record to
// persist and the plaintext to hand to the client.
func NewToken(userID uuid.UUID) (*Token, string, error) {
	raw := make([]byte, TokenByteLength)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	plaintext := hex.EncodeToString(raw)
	return &Token{
		ID:        uuid.New(),
		UserID:    userID,
		Digest:    Digest(plaintext),
		CreatedAt: time.Now(),
	}, plaintext, nil
}

// Digest derives the stored form of a plaintext token. Lookup by digest keeps
// a database leak from exposing usable credentials.
func Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
