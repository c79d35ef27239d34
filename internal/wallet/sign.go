package wallet

import (
	"encoding/hex"
	"fmt"

	"github.com/Quillon-tech/quillon-vault/internal/log"
	"github.com/Quillon-tech/quillon-vault/internal/txparse"
	"github.com/Quillon-tech/quillon-vault/internal/zero"
	"github.com/Quillon-tech/quillon-vault/pkg/crypto"
)

// SignMode selects how the message hex is turned into the signed digest.
type SignMode int

const (
	// ModeDigest signs the message directly; it must be a pre-hashed
	// 32-byte digest, 64 hex characters.
	ModeDigest SignMode = iota
	// ModeDoubleHash signs SHA-256(SHA-256(message bytes)).
	ModeDoubleHash
)

// Signature is the externally reportable signing result. It is transient;
// callers hand it to the report layer and drop it.
type Signature struct {
	Sig    [64]byte
	PubKey [33]byte
}

// SigHex returns the compact signature as hex.
func (s *Signature) SigHex() string {
	return hex.EncodeToString(s.Sig[:])
}

// PubKeyHex returns the compressed public key as hex.
func (s *Signature) PubKeyHex() string {
	return hex.EncodeToString(s.PubKey[:])
}

// Sign derives the key at path and signs messageHex according to mode.
// Each stage fails with its own error kind: message validation with
// ErrFormat, an unseeded wallet with ErrNotSeeded, a failed derivation
// step with ErrDerivation, and the signing primitive with ErrPrimitive.
func (w *Wallet) Sign(messageHex, path string, mode SignMode) (*Signature, error) {
	if mode == ModeDigest && len(messageHex) != 64 {
		return nil, fmt.Errorf("%w: digest is %d hex chars, want 64", ErrFormat, len(messageHex))
	}
	message, err := hex.DecodeString(messageHex)
	if err != nil {
		return nil, fmt.Errorf("%w: message is not hex", ErrFormat)
	}
	defer zero.Bytes(message)

	node, err := w.deriveNode(path)
	if err != nil {
		return nil, err
	}
	defer node.Zero()

	var sig [64]byte
	switch mode {
	case ModeDigest:
		var digest [32]byte
		copy(digest[:], message)
		sig, err = crypto.SignDigest(&node.PrivKey, digest)
		zero.Bytea32(&digest)
	case ModeDoubleHash:
		sig, err = crypto.SignDoubleHash(&node.PrivKey, message)
	default:
		return nil, fmt.Errorf("%w: unknown sign mode %d", ErrFormat, mode)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrimitive, err)
	}

	log.Wallet.Debug().Str("path", path).Int("mode", int(mode)).Msg("message signed")
	return &Signature{Sig: sig, PubKey: node.PubKey}, nil
}

// SignTransaction audits a raw transaction's outputs and, only if the
// change policy holds, signs the transaction bytes double-hashed with the
// key at path. No signature is ever produced for a transaction that fails
// the audit.
func (w *Wallet) SignTransaction(rawTxHex, path, changePath string) (*Signature, []ReportedOutput, error) {
	section, err := txparse.OutputSection(rawTxHex)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	reported, err := w.AuditOutputs(section, changePath)
	if err != nil {
		return nil, nil, err
	}

	sig, err := w.Sign(rawTxHex, path, ModeDoubleHash)
	if err != nil {
		return nil, nil, err
	}
	return sig, reported, nil
}
