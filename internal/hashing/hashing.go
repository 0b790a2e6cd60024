// Package hashing computes content digests for revisions and image assets.
package hashing

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Hash returns the Keccak-256 digest of content as a 0x-prefixed hex
// string. Same bytes in, same digest out, across processes; there is no
// process-local seed.
func Hash(content []byte) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(content)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

func HashString(content string) string {
	return Hash([]byte(content))
}
