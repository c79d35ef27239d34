package storage

import (
	"bytes"
	"testing"
)

// fastSealParams keeps Argon2id cheap in tests.
func fastSealParams() SealParams {
	return SealParams{Memory: 64, Iterations: 1, Parallelism: 1}
}

func newTestSealed(blobs BlobStore, passphrase string) *SealedStore {
	s := NewSealed(blobs, []byte(passphrase))
	s.params = fastSealParams()
	return s
}

func TestSealedStore_Contract(t *testing.T) {
	store := newTestSealed(NewMemory(), "hunter2")
	defer store.Close()
	exerciseSecretStore(t, store)
}

func TestSealedStore_WrongPassphrase(t *testing.T) {
	blobs := NewMemory()
	store := newTestSealed(blobs, "correct")
	priv, chainCode := testSecret()
	if err := store.Store(&priv, &chainCode); err != nil {
		t.Fatalf("Store() error: %v", err)
	}

	wrong := newTestSealed(blobs, "incorrect")
	if _, _, err := wrong.Load(); err == nil {
		t.Fatal("Load() with wrong passphrase succeeded")
	}

	// The record is intact: the right passphrase still loads.
	gotPriv, gotCode, err := store.Load()
	if err != nil {
		t.Fatalf("Load() after failed unseal error: %v", err)
	}
	if gotPriv != priv || gotCode != chainCode {
		t.Error("failed unseal corrupted the record")
	}
}

func TestSealedStore_OverBadger(t *testing.T) {
	badger, err := NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	store := newTestSealed(badger, "pass")
	defer store.Close()

	exerciseSecretStore(t, store)
}

func TestSeal_RoundTrip(t *testing.T) {
	params := fastSealParams()
	data := []byte("sixty-four bytes of very secret master key and chain code bytes!")
	passphrase := []byte("open sesame")

	sealed, err := seal(data, passphrase, params)
	if err != nil {
		t.Fatalf("seal() error: %v", err)
	}
	if bytes.Contains(sealed, data) {
		t.Error("sealed record contains the plaintext")
	}

	opened, err := unseal(sealed, passphrase)
	if err != nil {
		t.Fatalf("unseal() error: %v", err)
	}
	if !bytes.Equal(opened, data) {
		t.Error("plaintext did not round-trip")
	}
}

func TestUnseal_TamperedRecord(t *testing.T) {
	params := fastSealParams()
	sealed, err := seal([]byte("payload"), []byte("pw"), params)
	if err != nil {
		t.Fatalf("seal() error: %v", err)
	}

	tampered := make([]byte, len(sealed))
	copy(tampered, sealed)
	tampered[len(tampered)-1] ^= 0x01
	if _, err := unseal(tampered, []byte("pw")); err == nil {
		t.Error("unseal() accepted a tampered record")
	}
}

func TestUnseal_TooShort(t *testing.T) {
	if _, err := unseal([]byte("tiny"), []byte("pw")); err == nil {
		t.Error("unseal() accepted a truncated record")
	}
}
