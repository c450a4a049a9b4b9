package atelier

import (
	"crypto/rand"
	"encoding/hex"
)

// APIKeyLength is the number of hex characters in a generated key.
const APIKeyLength = 32

// KeyGenerator produces candidate API keys. The registration workflow
// keeps calling it until the store reports the candidate as unused.
type KeyGenerator func() (string, error)

// GenerateAPIKey returns a random hex key of APIKeyLength characters.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, APIKeyLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
