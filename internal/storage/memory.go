package storage

import "github.com/Quillon-tech/quillon-vault/internal/zero"

// MemoryStore keeps the master secret in process memory only. It backs
// tests and the ephemeral CLI mode.
type MemoryStore struct {
	priv      [32]byte
	chainCode [32]byte
	set       bool
	blob      []byte
}

// NewMemory creates an in-memory store with both slots erased.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored secret, or the erased pattern when unset.
func (m *MemoryStore) Load() ([32]byte, [32]byte, error) {
	if !m.set {
		return Erased(), Erased(), nil
	}
	return m.priv, m.chainCode, nil
}

// Store persists both slots.
func (m *MemoryStore) Store(priv, chainCode *[32]byte) error {
	m.priv = *priv
	m.chainCode = *chainCode
	m.set = true
	return nil
}

// Erase wipes and resets both slots.
func (m *MemoryStore) Erase() error {
	zero.Bytea32(&m.priv)
	zero.Bytea32(&m.chainCode)
	m.set = false
	return nil
}

// LoadBlob returns the stored record, or nil when absent.
func (m *MemoryStore) LoadBlob() ([]byte, error) {
	if m.blob == nil {
		return nil, nil
	}
	out := make([]byte, len(m.blob))
	copy(out, m.blob)
	return out, nil
}

// StoreBlob persists the record.
func (m *MemoryStore) StoreBlob(blob []byte) error {
	m.blob = make([]byte, len(blob))
	copy(m.blob, blob)
	return nil
}

// EraseBlob removes the record.
func (m *MemoryStore) EraseBlob() error {
	zero.Bytes(m.blob)
	m.blob = nil
	return nil
}

// Close wipes the in-memory slots.
func (m *MemoryStore) Close() error {
	m.Erase()
	return m.EraseBlob()
}
