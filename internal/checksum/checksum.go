// Package checksum computes the document digests used for change detection
// and optimistic concurrency.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Matches reports whether ifMatch names the digest of data. An empty
// ifMatch and the "*" wildcard match any existing document. Surrounding
// ETag quotes are ignored.
func Matches(data []byte, ifMatch string) bool {
	ifMatch = strings.TrimSpace(ifMatch)
	if ifMatch == "*" {
		return true
	}
	ifMatch = strings.Trim(ifMatch, `"`)
	return ifMatch == "" || ifMatch == Sum(data)
}
