package wallet

import (
	"encoding/hex"
	"fmt"

	"github.com/Quillon-tech/quillon-vault/internal/hdkey"
	"github.com/Quillon-tech/quillon-vault/pkg/crypto"
	"github.com/Quillon-tech/quillon-vault/pkg/types"
)

// addressStringLen is the only address length CheckAddress accepts.
const addressStringLen = 34

// XPrv derives the key at path and reports its extended private key.
func (w *Wallet) XPrv(path string) (string, error) {
	node, err := w.deriveNode(path)
	if err != nil {
		return "", err
	}
	defer node.Zero()
	return hdkey.XPrv(node, w.params.XPrvVersion), nil
}

// XPub derives the key at path and reports its extended public key.
func (w *Wallet) XPub(path string) (string, error) {
	node, err := w.deriveNode(path)
	if err != nil {
		return "", err
	}
	defer node.Zero()
	return hdkey.XPub(node, w.params.XPubVersion), nil
}

// ID reports the wallet identifier: the hex SHA-256 of the master extended
// public key, hashed over the fixed zero-padded report buffer so IDs match
// across firmware revisions.
func (w *Wallet) ID() (string, error) {
	xpub, err := w.XPub("m/")
	if err != nil {
		return "", err
	}
	var buf [hdkey.XKeyBufferLen]byte
	copy(buf[:], xpub)
	sum := crypto.Sha256(buf[:])
	return hex.EncodeToString(sum[:]), nil
}

// Address derives the key at path and reports its Base58Check address.
func (w *Wallet) Address(path string) (string, error) {
	node, err := w.deriveNode(path)
	if err != nil {
		return "", err
	}
	defer node.Zero()
	return types.EncodeAddress(node.PubKey[:], w.params.AddressVersion), nil
}

// WIF derives the key at path and reports its private key in wallet
// import format.
func (w *Wallet) WIF(path string) (string, error) {
	node, err := w.deriveNode(path)
	if err != nil {
		return "", err
	}
	defer node.Zero()
	return types.EncodeWIF(&node.PrivKey, w.params.WIFVersion), nil
}

// CheckAddress reports whether address is the wallet's own address at
// path. The address must be exactly 34 characters; shorter encodings are
// rejected before any derivation runs.
func (w *Wallet) CheckAddress(address, path string) (bool, error) {
	if len(address) != addressStringLen {
		return false, fmt.Errorf("%w: address length %d, want %d", ErrFormat, len(address), addressStringLen)
	}
	derived, err := w.Address(path)
	if err != nil {
		return false, err
	}
	return derived == address, nil
}
