package storage

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/zeebo/blake3"

	"github.com/Quillon-tech/quillon-vault/internal/zero"
)

// Record keys inside the Badger database.
var (
	keyMasterSecret = []byte("master_secret")
	keySealedSecret = []byte("sealed_secret")
)

// recordLen is checksum(32) || priv(32) || chainCode(32).
const recordLen = 96

// BadgerStore persists the master secret in a Badger database. Each write
// carries a BLAKE3 content checksum so silent corruption surfaces as
// ErrCorrupt instead of reading back as a different key.
type BadgerStore struct {
	db *badger.DB
}

// NewBadger opens (or creates) a Badger database at the given path.
func NewBadger(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger's built-in logging.

	db, err := badger.Open(opts)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "Cannot acquire directory lock") ||
			strings.Contains(errMsg, "resource temporarily unavailable") {
			return nil, fmt.Errorf("secret store at %s is locked by another process: %w", path, err)
		}
		return nil, fmt.Errorf("open secret store at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

// Load returns the stored secret. A missing record reads back as erased;
// a record failing its checksum is ErrCorrupt.
func (b *BadgerStore) Load() ([32]byte, [32]byte, error) {
	record, err := b.get(keyMasterSecret)
	if err != nil {
		return [32]byte{}, [32]byte{}, err
	}
	if record == nil {
		return Erased(), Erased(), nil
	}
	defer zero.Bytes(record)

	if len(record) != recordLen {
		return [32]byte{}, [32]byte{}, fmt.Errorf("%w: record is %d bytes, want %d", ErrCorrupt, len(record), recordLen)
	}
	sum := blake3.Sum256(record[32:])
	if !bytes.Equal(sum[:], record[:32]) {
		return [32]byte{}, [32]byte{}, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	var priv, chainCode [32]byte
	copy(priv[:], record[32:64])
	copy(chainCode[:], record[64:])
	return priv, chainCode, nil
}

// Store persists both slots under a fresh checksum.
func (b *BadgerStore) Store(priv, chainCode *[32]byte) error {
	record := make([]byte, recordLen)
	copy(record[32:64], priv[:])
	copy(record[64:], chainCode[:])
	sum := blake3.Sum256(record[32:])
	copy(record[:32], sum[:])
	defer zero.Bytes(record)

	return b.put(keyMasterSecret, record)
}

// Erase removes the record so both slots read back erased.
func (b *BadgerStore) Erase() error {
	return b.delete(keyMasterSecret)
}

// LoadBlob returns the sealed record, or nil when absent.
func (b *BadgerStore) LoadBlob() ([]byte, error) {
	return b.get(keySealedSecret)
}

// StoreBlob persists the sealed record.
func (b *BadgerStore) StoreBlob(blob []byte) error {
	return b.put(keySealedSecret, blob)
}

// EraseBlob removes the sealed record.
func (b *BadgerStore) EraseBlob() error {
	return b.delete(keySealedSecret)
}

// Close closes the database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}

func (b *BadgerStore) get(key []byte) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return val, nil
}

func (b *BadgerStore) put(key, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return fmt.Errorf("badger put: %w", err)
	}
	return nil
}

func (b *BadgerStore) delete(key []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("badger delete: %w", err)
	}
	return nil
}
