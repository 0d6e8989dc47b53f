// Package resettokens keeps single-use password-reset tokens. Only the
// SHA-256 hash of a token is ever stored.
package resettokens

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/themisai/themis/internal/common"
)

// DefaultTTL is how long a reset token stays valid.
const DefaultTTL = 15 * time.Minute

// Store maps token hashes to account emails.
type Store interface {
	Save(ctx context.Context, hash, email string, ttl time.Duration) error
	// Consume returns the email for hash and removes the entry. Unknown or
	// expired hashes yield common.ErrorNotFound.
	Consume(ctx context.Context, hash string) (string, error)
}

// NewToken returns a fresh url-safe token and its hash.
func NewToken() (token, hash string, err error) {
	token, err = common.MakeURLSafeToken(32)
	if err != nil {
		return "", "", err
	}
	return token, Hash(token), nil
}

// Hash is the hex SHA-256 digest under which a token is stored.
func Hash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
