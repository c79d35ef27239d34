// Package crypto wraps the hashing and elliptic-curve primitives the vault
// core consumes. Nothing here is implemented from scratch; the package exists
// so the rest of the code depends on one narrow surface.
package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"

	"golang.org/x/crypto/ripemd160"
)

// Sha256 computes a single SHA-256 hash of the input data.
func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// DoubleSha256 computes SHA-256(SHA-256(data)).
func DoubleSha256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// Hash160 computes RIPEMD-160(SHA-256(data)), the Bitcoin public-key hash.
func Hash160(data []byte) [20]byte {
	first := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(first[:])
	var out [20]byte
	copy(out[:], r.Sum(nil))
	return out
}

// HmacSha512 computes HMAC-SHA512 of data under key.
func HmacSha512(key, data []byte) [64]byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	var out [64]byte
	copy(out[:], mac.Sum(nil))
	return out
}
