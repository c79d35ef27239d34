// Package hdkey implements BIP-32 hierarchical key derivation: keypath
// parsing, child-key derivation from a master secret, and extended-key
// serialization.
package hdkey

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Quillon-tech/quillon-vault/internal/zero"
	"github.com/Quillon-tech/quillon-vault/pkg/crypto"
)

// HardenedOffset is the child-number bit that selects hardened derivation.
const HardenedOffset uint32 = 0x80000000

// masterSeedKey is the HMAC key fixed by BIP-32 for seed expansion.
var masterSeedKey = []byte("Bitcoin seed")

var (
	// ErrErasedMaster reports a master key or chain code still holding the
	// erased-storage pattern (or all zeros).
	ErrErasedMaster = errors.New("master secret is erased")

	// ErrDeriveStep reports a failed child-key-derivation step, either an
	// out-of-range intermediate scalar or a zero child key.
	ErrDeriveStep = errors.New("child key derivation failed")
)

// HDNode is a derived key. It is stack-local and exclusively owned by the
// operation that created it; call Zero on every exit path.
type HDNode struct {
	Depth       uint32
	ChildNum    uint32 // high bit set means hardened
	Fingerprint uint32
	ChainCode   [32]byte
	PrivKey     [32]byte
	PubKey      [33]byte // compressed point for PrivKey
}

// Zero wipes the node's key material and resets its metadata.
func (n *HDNode) Zero() {
	n.Depth = 0
	n.ChildNum = 0
	n.Fingerprint = 0
	zero.Bytea32(&n.ChainCode)
	zero.Bytea32(&n.PrivKey)
	zero.Bytea33(&n.PubKey)
}

// FillPublicKey recomputes PubKey from PrivKey, maintaining the node's
// compressed-point invariant.
func (n *HDNode) FillPublicKey() error {
	pub, err := crypto.PubKey33(&n.PrivKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeriveStep, err)
	}
	n.PubKey = pub
	return nil
}

// erasedOrZero reports whether b is all 0x00 or all 0xFF, the two patterns
// an unseeded secret slot can hold.
func erasedOrZero(b *[32]byte) bool {
	var orAll, andAll byte = 0, 0xFF
	for _, v := range b {
		orAll |= v
		andAll &= v
	}
	return orAll == 0 || andAll == 0xFF
}

// Master builds the depth-0 node for a stored master secret. It fails fast
// when either half still holds the erased-storage sentinel, so no derivation
// can run on an unseeded wallet.
func Master(priv, chainCode *[32]byte) (*HDNode, error) {
	if erasedOrZero(priv) || erasedOrZero(chainCode) {
		return nil, ErrErasedMaster
	}
	n := &HDNode{}
	n.PrivKey = *priv
	n.ChainCode = *chainCode
	if err := n.FillPublicKey(); err != nil {
		n.Zero()
		return nil, err
	}
	return n, nil
}

// FromSeed expands a stretched seed into a master node via
// HMAC-SHA512("Bitcoin seed", seed).
func FromSeed(seed []byte) (*HDNode, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("%w: empty seed", ErrDeriveStep)
	}
	sum := crypto.HmacSha512(masterSeedKey, seed)
	defer zero.Bytea64(&sum)

	n := &HDNode{}
	copy(n.PrivKey[:], sum[:32])
	copy(n.ChainCode[:], sum[32:])
	if err := n.FillPublicKey(); err != nil {
		n.Zero()
		return nil, err
	}
	return n, nil
}

// Derive walks the keypath, replacing the node's key material in place one
// child-key-derivation step at a time. Any failing step wipes the node and
// aborts; there is no partial-path fallback.
func (n *HDNode) Derive(path Keypath) error {
	for _, childNum := range path {
		if err := n.deriveChild(childNum); err != nil {
			n.Zero()
			return err
		}
	}
	return nil
}

// deriveChild runs one BIP-32 CKD step. Hardened children (high bit set)
// commit to the private key, normal children to the public key.
func (n *HDNode) deriveChild(i uint32) error {
	var data [37]byte
	if i >= HardenedOffset {
		data[0] = 0x00
		copy(data[1:33], n.PrivKey[:])
	} else {
		copy(data[:33], n.PubKey[:])
	}
	binary.BigEndian.PutUint32(data[33:], i)

	sum := crypto.HmacSha512(n.ChainCode[:], data[:])
	zero.Bytes(data[:])
	defer zero.Bytea64(&sum)

	var il [32]byte
	copy(il[:], sum[:32])
	defer zero.Bytea32(&il)

	child, err := crypto.AddScalars(&il, &n.PrivKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeriveStep, err)
	}
	defer zero.Bytea32(&child)

	parentID := crypto.Hash160(n.PubKey[:])
	n.Fingerprint = binary.BigEndian.Uint32(parentID[:4])
	n.PrivKey = child
	copy(n.ChainCode[:], sum[32:])
	n.Depth++
	n.ChildNum = i
	return n.FillPublicKey()
}
