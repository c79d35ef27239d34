// Package storage emulates the secure element holding the master secret:
// a private key and chain code addressable as get/set slots with a defined
// erased pattern.
package storage

import "errors"

// ErrCorrupt reports a persisted secret record failing its integrity check.
var ErrCorrupt = errors.New("secret record corrupt")

// SecretStore persists the master secret. Erased slots read back as the
// all-0xFF pattern, mirroring erased flash.
type SecretStore interface {
	// Load returns the stored private key and chain code, or the erased
	// pattern for slots never written.
	Load() (priv, chainCode [32]byte, err error)
	// Store persists both slots.
	Store(priv, chainCode *[32]byte) error
	// Erase resets both slots to the erased pattern.
	Erase() error
	// Close releases the backing resources.
	Close() error
}

// BlobStore persists a single opaque record, the surface sealed storage
// writes its ciphertext through.
type BlobStore interface {
	// LoadBlob returns the stored record, or nil when absent.
	LoadBlob() ([]byte, error)
	// StoreBlob persists the record.
	StoreBlob(blob []byte) error
	// EraseBlob removes the record.
	EraseBlob() error
	// Close releases the backing resources.
	Close() error
}

// Erased returns the all-0xFF pattern an erased slot reads back as.
func Erased() [32]byte {
	var b [32]byte
	for i := range b {
		b[i] = 0xFF
	}
	return b
}

// IsErased reports whether a slot holds the erased pattern.
func IsErased(b *[32]byte) bool {
	for _, v := range b {
		if v != 0xFF {
			return false
		}
	}
	return true
}
