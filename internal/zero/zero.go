// Package zero provides helpers for wiping secret material from memory.
//
// Callers register a wipe with defer immediately after a secret buffer is
// populated, so every exit path (including early error returns) clears it.
package zero

// Bytes sets every byte of the slice to zero.
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Bytea32 sets every byte of the 32-byte array to zero.
func Bytea32(b *[32]byte) {
	for i := range b {
		b[i] = 0
	}
}

// Bytea33 sets every byte of the 33-byte array to zero.
func Bytea33(b *[33]byte) {
	for i := range b {
		b[i] = 0
	}
}

// Bytea64 sets every byte of the 64-byte array to zero.
func Bytea64(b *[64]byte) {
	for i := range b {
		b[i] = 0
	}
}

// IsZero reports whether every byte of the slice is zero.
func IsZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
