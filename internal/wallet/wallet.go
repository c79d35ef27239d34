// Package wallet ties the vault together: master-key lifecycle, key and
// address reporting, transaction output auditing, and signing. Leaf
// packages stay pure; this layer alone translates their results into the
// error taxonomy and user-facing report structures.
package wallet

import (
	"fmt"

	"github.com/Quillon-tech/quillon-vault/config"
	"github.com/Quillon-tech/quillon-vault/internal/hdkey"
	"github.com/Quillon-tech/quillon-vault/internal/log"
	"github.com/Quillon-tech/quillon-vault/internal/mnemonic"
	"github.com/Quillon-tech/quillon-vault/internal/storage"
	"github.com/Quillon-tech/quillon-vault/internal/zero"
)

// Reporter receives the non-change outputs of an audited transaction for
// user confirmation. Implementations must not retain the strings beyond
// the call.
type Reporter interface {
	ReportOutput(value, script string)
}

// NopReporter discards reported outputs.
type NopReporter struct{}

// ReportOutput implements Reporter.
func (NopReporter) ReportOutput(value, script string) {}

// Wallet is the vault core. All methods are synchronous and run to
// completion; secret material never outlives the call that derived it.
type Wallet struct {
	store        storage.SecretStore
	params       config.Params
	reporter     Reporter
	progress     mnemonic.ProgressFunc
	strictChange bool
}

// Option configures a Wallet.
type Option func(*Wallet)

// WithReporter routes audited outputs to r instead of discarding them.
func WithReporter(r Reporter) Option {
	return func(w *Wallet) { w.reporter = r }
}

// WithProgress observes mnemonic seed stretching.
func WithProgress(f mnemonic.ProgressFunc) Option {
	return func(w *Wallet) { w.progress = f }
}

// WithStrictChange tightens change detection from substring matching to
// the exact pay-to-pubkey-hash script template.
func WithStrictChange() Option {
	return func(w *Wallet) { w.strictChange = true }
}

// New creates a wallet over the given secret store and network parameters.
func New(store storage.SecretStore, params config.Params, opts ...Option) *Wallet {
	w := &Wallet{
		store:    store,
		params:   params,
		reporter: NopReporter{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// deriveNode parses path and derives the corresponding node from the
// stored master secret. The caller owns the node and must Zero it on every
// exit path.
func (w *Wallet) deriveNode(path string) (*hdkey.HDNode, error) {
	keypath, err := hdkey.ParsePath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	node, err := w.masterNode()
	if err != nil {
		return nil, err
	}
	if err := node.Derive(keypath); err != nil {
		log.Keychain.Warn().Str("path", path).Msg("derivation step failed")
		return nil, fmt.Errorf("%w: %v", ErrDerivation, err)
	}
	return node, nil
}

// masterNode loads the master secret and builds the depth-0 node.
func (w *Wallet) masterNode() (*hdkey.HDNode, error) {
	priv, chainCode, err := w.store.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageVerify, err)
	}
	defer zero.Bytea32(&priv)
	defer zero.Bytea32(&chainCode)

	node, err := hdkey.Master(&priv, &chainCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSeeded, err)
	}
	return node, nil
}
