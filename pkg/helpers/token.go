package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateToken returns n random bytes from crypto/rand encoded as a URL-safe
// string. Used for reactivation tokens and other opaque secrets.
func GenerateToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
