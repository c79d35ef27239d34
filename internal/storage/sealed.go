package storage

import (
	"fmt"

	"github.com/Quillon-tech/quillon-vault/internal/zero"
)

// sealedPayloadLen is priv(32) || chainCode(32).
const sealedPayloadLen = 64

// SealedStore wraps a BlobStore, sealing the master secret under a
// passphrase-derived key. A wrong passphrase surfaces as a load error and
// never corrupts the stored record.
type SealedStore struct {
	blobs      BlobStore
	passphrase []byte
	params     SealParams
}

// NewSealed creates a sealed store over blobs. The passphrase is copied;
// the caller may wipe its own buffer.
func NewSealed(blobs BlobStore, passphrase []byte) *SealedStore {
	p := make([]byte, len(passphrase))
	copy(p, passphrase)
	return &SealedStore{
		blobs:      blobs,
		passphrase: p,
		params:     DefaultSealParams(),
	}
}

// Load unseals and returns the stored secret, or the erased pattern when
// no record exists.
func (s *SealedStore) Load() ([32]byte, [32]byte, error) {
	blob, err := s.blobs.LoadBlob()
	if err != nil {
		return [32]byte{}, [32]byte{}, err
	}
	if blob == nil {
		return Erased(), Erased(), nil
	}

	payload, err := unseal(blob, s.passphrase)
	if err != nil {
		return [32]byte{}, [32]byte{}, err
	}
	defer zero.Bytes(payload)

	if len(payload) != sealedPayloadLen {
		return [32]byte{}, [32]byte{}, fmt.Errorf("%w: payload is %d bytes, want %d", ErrCorrupt, len(payload), sealedPayloadLen)
	}

	var priv, chainCode [32]byte
	copy(priv[:], payload[:32])
	copy(chainCode[:], payload[32:])
	return priv, chainCode, nil
}

// Store seals both slots and persists the record.
func (s *SealedStore) Store(priv, chainCode *[32]byte) error {
	payload := make([]byte, sealedPayloadLen)
	copy(payload[:32], priv[:])
	copy(payload[32:], chainCode[:])
	defer zero.Bytes(payload)

	blob, err := seal(payload, s.passphrase, s.params)
	if err != nil {
		return err
	}
	return s.blobs.StoreBlob(blob)
}

// Erase removes the sealed record.
func (s *SealedStore) Erase() error {
	return s.blobs.EraseBlob()
}

// Close wipes the passphrase copy and closes the backing store.
func (s *SealedStore) Close() error {
	zero.Bytes(s.passphrase)
	return s.blobs.Close()
}
