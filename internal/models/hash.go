package models

import (
	"crypto/sha256"
	"encoding/hex"
)

// GenerateSHA256Hash returns the hex encoded SHA-256 of input.
func GenerateSHA256Hash(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}
