// Package kv provides the synchronous string-key value store the record store
// persists into. It is deliberately schema-free: values are opaque byte blobs.
package kv

// Store is a flat key -> value store. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) ([]byte, bool)
	// Set replaces the value for key in full. No partial writes.
	Set(key string, value []byte) error
	// Remove deletes the key; removing an absent key is a no-op.
	Remove(key string) error
	// Keys lists every stored key.
	Keys() []string
}
