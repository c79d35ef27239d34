// Package types implements the Bitcoin-style serialized formats the vault
// reports: public-key hashes, Base58Check addresses, and WIF private keys.
package types

import (
	"fmt"

	"github.com/btcsuite/btcutil/base58"

	"github.com/Quillon-tech/quillon-vault/pkg/crypto"
)

// PubKeyHashSize is the length of a RIPEMD-160 public-key hash.
const PubKeyHashSize = 20

// PubKeyHash computes RIPEMD-160(SHA-256(pubkey)) over the public key's
// canonical encoding. A leading 0x04 selects the 65-byte uncompressed form
// and a single 0x00 marker the point at infinity; everything else is hashed
// as the 33-byte compressed form.
func PubKeyHash(pubKey []byte) [PubKeyHashSize]byte {
	switch {
	case len(pubKey) > 0 && pubKey[0] == 0x04:
		return crypto.Hash160(pubKey[:65])
	case len(pubKey) > 0 && pubKey[0] == 0x00:
		return crypto.Hash160(pubKey[:1])
	default:
		return crypto.Hash160(pubKey[:33])
	}
}

// EncodeAddress encodes version || PubKeyHash(pubKey) as a Base58Check
// address.
func EncodeAddress(pubKey []byte, version byte) string {
	hash := PubKeyHash(pubKey)
	return base58.CheckEncode(hash[:], version)
}

// DecodeAddress decodes a Base58Check address back into its version byte
// and 20-byte public-key hash.
func DecodeAddress(addr string) (byte, [PubKeyHashSize]byte, error) {
	var hash [PubKeyHashSize]byte
	payload, version, err := base58.CheckDecode(addr)
	if err != nil {
		return 0, hash, fmt.Errorf("decode address: %w", err)
	}
	if len(payload) != PubKeyHashSize {
		return 0, hash, fmt.Errorf("address payload is %d bytes, want %d", len(payload), PubKeyHashSize)
	}
	copy(hash[:], payload)
	return version, hash, nil
}
