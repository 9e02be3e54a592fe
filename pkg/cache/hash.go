package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// FrameKey returns the cache key for dot rendered as format. The format
// stays readable in the key so a cache directory can be inspected by eye.
func FrameKey(dot, format string) string {
	return "frame:" + format + ":" + Hash([]byte(dot))
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
