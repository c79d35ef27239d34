package hdkey

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"

	"github.com/Quillon-tech/quillon-vault/internal/zero"
	"github.com/Quillon-tech/quillon-vault/pkg/crypto"
)

const (
	// serializedLen is the raw extended-key payload length: 4-byte version,
	// depth, 4-byte fingerprint, 4-byte child number, 32-byte chain code,
	// 33-byte key.
	serializedLen = 78

	// XKeyStringLen is the Base58Check length of a serialized extended key
	// under the standard version prefixes.
	XKeyStringLen = 111

	// XKeyBufferLen is the device's fixed extended-key report buffer; keys
	// are zero-padded to this length and the wallet ID hashes the whole
	// buffer.
	XKeyBufferLen = 112
)

// ErrKeyFormat reports a malformed or wrong-length serialized extended key.
var ErrKeyFormat = errors.New("malformed extended key")

// XPrv serializes the node as an extended private key under the given
// version prefix.
func XPrv(n *HDNode, version uint32) string {
	var key [33]byte
	key[0] = 0x00
	copy(key[1:], n.PrivKey[:])
	s := serializeKey(n, version, &key)
	zero.Bytea33(&key)
	return s
}

// XPub serializes the node as an extended public key under the given
// version prefix.
func XPub(n *HDNode, version uint32) string {
	return serializeKey(n, version, &n.PubKey)
}

func serializeKey(n *HDNode, version uint32, key *[33]byte) string {
	buf := make([]byte, 0, serializedLen+4)
	buf = binary.BigEndian.AppendUint32(buf, version)
	buf = append(buf, byte(n.Depth))
	buf = binary.BigEndian.AppendUint32(buf, n.Fingerprint)
	buf = binary.BigEndian.AppendUint32(buf, n.ChildNum)
	buf = append(buf, n.ChainCode[:]...)
	buf = append(buf, key[:]...)
	checksum := crypto.DoubleSha256(buf)
	buf = append(buf, checksum[:4]...)
	s := base58.Encode(buf)
	zero.Bytes(buf)
	return s
}

// ParseXPrv deserializes an extended private key. The input must be exactly
// XKeyStringLen characters and carry the private version prefix; extended
// public keys are rejected.
func ParseXPrv(text string, version uint32) (*HDNode, error) {
	if len(text) != XKeyStringLen {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrKeyFormat, len(text), XKeyStringLen)
	}

	raw := base58.Decode(text)
	defer zero.Bytes(raw)
	if len(raw) != serializedLen+4 {
		return nil, fmt.Errorf("%w: not a base58check payload", ErrKeyFormat)
	}

	checksum := crypto.DoubleSha256(raw[:serializedLen])
	if !bytes.Equal(checksum[:4], raw[serializedLen:]) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrKeyFormat)
	}

	if binary.BigEndian.Uint32(raw[:4]) != version {
		return nil, fmt.Errorf("%w: wrong version prefix", ErrKeyFormat)
	}
	if raw[45] != 0x00 {
		return nil, fmt.Errorf("%w: not a private key", ErrKeyFormat)
	}

	n := &HDNode{
		Depth:       uint32(raw[4]),
		Fingerprint: binary.BigEndian.Uint32(raw[5:9]),
		ChildNum:    binary.BigEndian.Uint32(raw[9:13]),
	}
	copy(n.ChainCode[:], raw[13:45])
	copy(n.PrivKey[:], raw[46:78])
	if err := n.FillPublicKey(); err != nil {
		n.Zero()
		return nil, fmt.Errorf("%w: invalid private scalar", ErrKeyFormat)
	}
	return n, nil
}
