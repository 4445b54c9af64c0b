package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a "prefix:hex" cache key from the value class (plan or
// artifact) and the inputs that shape the cached bytes. The full SHA-256
// digest goes into the key: a collision here would silently serve one
// chart's plan or artifact for another's.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash returns the SHA-256 digest of data as a 64-char hex string. The
// pipeline uses it for dataset content hashes and the plan hash echoed in
// results and response headers.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
