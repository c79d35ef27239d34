package types

import (
	"fmt"

	"github.com/btcsuite/btcutil/base58"

	"github.com/Quillon-tech/quillon-vault/internal/zero"
)

// wifCompressedFlag marks a WIF key whose corresponding public key is the
// compressed 33-byte form.
const wifCompressedFlag = 0x01

// EncodeWIF encodes version || privkey || 0x01 as a Base58Check WIF string.
// The trailing flag records that derived addresses use compressed pubkeys.
func EncodeWIF(priv *[32]byte, version byte) string {
	payload := make([]byte, 0, 33)
	payload = append(payload, priv[:]...)
	payload = append(payload, wifCompressedFlag)
	wif := base58.CheckEncode(payload, version)
	zero.Bytes(payload)
	return wif
}

// DecodeWIF decodes a compressed-form WIF string back into its version byte
// and 32-byte private key.
func DecodeWIF(wif string) (byte, [32]byte, error) {
	var priv [32]byte
	payload, version, err := base58.CheckDecode(wif)
	if err != nil {
		return 0, priv, fmt.Errorf("decode wif: %w", err)
	}
	defer zero.Bytes(payload)
	if len(payload) != 33 || payload[32] != wifCompressedFlag {
		return 0, priv, fmt.Errorf("wif payload is not a compressed-form key")
	}
	copy(priv[:], payload[:32])
	return version, priv, nil
}
