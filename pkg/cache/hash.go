package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds a key of the form "<kind>:<sha256 of parts as JSON>".
func hashKey(kind string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		// Key parts are plain strings and option structs.
		panic("cache: unhashable key parts: " + err.Error())
	}
	return kind + ":" + Hash(data)
}

// Hash returns the hex-encoded SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
