package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key identifies one parse result: the layer kind plus the SHA-256 of the
// file content. Identical bytes under a different file name share a key.
type Key string

// KeyFor returns the cache key for content parsed as kind.
// Format: {kind}:{sha256 hex}
func KeyFor(kind string, content []byte) Key {
	return Key(kind + ":" + hashBytes(content))
}

// Kind returns the layer kind encoded in the key.
func (k Key) Kind() string {
	for i := 0; i < len(k); i++ {
		if k[i] == ':' {
			return string(k[:i])
		}
	}
	return ""
}

// hashBytes returns the SHA-256 hash of b as lowercase hex.
func hashBytes(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
