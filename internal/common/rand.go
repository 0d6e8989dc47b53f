package common

import (
	"crypto/rand"
	"encoding/base64"
)

// MakeURLSafeToken returns size random bytes encoded with unpadded URL-safe
// base64. Used for one-time links such as password reset tokens.
func MakeURLSafeToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// WipeByteArray overwrites b with zeros. A nil slice is ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
