// Package fingerprint computes content fingerprints for the trace ledger
// and the optimistic file lock.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the SHA-256 digest of content as 64 lowercase hex characters.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// HashString returns the SHA-256 digest of the UTF-8 encoding of content.
func HashString(content string) string {
	return Hash([]byte(content))
}
