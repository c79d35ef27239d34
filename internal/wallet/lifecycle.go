package wallet

import (
	"crypto/rand"
	"fmt"

	"github.com/Quillon-tech/quillon-vault/internal/hdkey"
	"github.com/Quillon-tech/quillon-vault/internal/log"
	"github.com/Quillon-tech/quillon-vault/internal/mnemonic"
	"github.com/Quillon-tech/quillon-vault/internal/storage"
	"github.com/Quillon-tech/quillon-vault/internal/zero"
)

// IsSeeded reports whether both persisted slots hold real key material
// rather than the erased-storage pattern. Every derivation-dependent
// operation gates on this.
func (w *Wallet) IsSeeded() bool {
	priv, chainCode, err := w.store.Load()
	if err != nil {
		return false
	}
	defer zero.Bytea32(&priv)
	defer zero.Bytea32(&chainCode)
	return !storage.IsErased(&priv) && !storage.IsErased(&chainCode)
}

// ImportXPrv seeds the wallet from a serialized extended private key.
func (w *Wallet) ImportXPrv(xprv string) error {
	node, err := hdkey.ParseXPrv(xprv, w.params.XPrvVersion)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	defer node.Zero()

	if err := w.persistMaster(&node.PrivKey, &node.ChainCode); err != nil {
		return err
	}
	log.Wallet.Info().Msg("master key imported from extended key")
	return nil
}

// SeedFromMnemonic seeds the wallet from a recovery phrase stretched with
// the optional passphrase. An empty phrase seeds from the secure random
// source instead, bypassing the mnemonic codec entirely.
func (w *Wallet) SeedFromMnemonic(phrase, passphrase string) error {
	if phrase == "" {
		return w.SeedFromRandom()
	}
	if !mnemonic.Validate(phrase) {
		return fmt.Errorf("%w: phrase rejected", ErrChecksum)
	}

	seed := mnemonic.ToSeed(phrase, passphrase, w.progress)
	defer zero.Bytea64(&seed)
	if err := w.seedMaster(seed[:]); err != nil {
		return err
	}
	log.Wallet.Info().Msg("master key derived from mnemonic")
	return nil
}

// SeedFromRandom seeds the wallet from 64 fresh bytes of secure
// randomness. No mnemonic backs this master key.
func (w *Wallet) SeedFromRandom() error {
	var seed [64]byte
	defer zero.Bytea64(&seed)
	if _, err := rand.Read(seed[:]); err != nil {
		return fmt.Errorf("%w: random source: %v", ErrPrimitive, err)
	}
	if err := w.seedMaster(seed[:]); err != nil {
		return err
	}
	log.Wallet.Info().Msg("master key seeded from random")
	return nil
}

// Erase resets the persisted master secret to the erased pattern.
func (w *Wallet) Erase() error {
	if err := w.store.Erase(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageVerify, err)
	}
	log.Wallet.Info().Msg("master key erased")
	return nil
}

// seedMaster expands a seed into a master node and persists it.
func (w *Wallet) seedMaster(seed []byte) error {
	node, err := hdkey.FromSeed(seed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDerivation, err)
	}
	defer node.Zero()
	return w.persistMaster(&node.PrivKey, &node.ChainCode)
}

// persistMaster writes both slots and re-checks the seeded predicate as a
// write-verification step. A verification miss is a storage-class error,
// distinct from any format error the caller may have produced.
func (w *Wallet) persistMaster(priv, chainCode *[32]byte) error {
	if err := w.store.Store(priv, chainCode); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageVerify, err)
	}
	if !w.IsSeeded() {
		return fmt.Errorf("%w: write did not read back seeded", ErrStorageVerify)
	}
	return nil
}
