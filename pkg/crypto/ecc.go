package crypto

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// PubKey33 computes the compressed 33-byte public key for a 32-byte private
// scalar. Fails if the scalar is zero or not less than the curve order.
func PubKey33(priv *[32]byte) ([33]byte, error) {
	var out [33]byte
	var s secp256k1.ModNScalar
	if overflow := s.SetBytes(priv); overflow != 0 || s.IsZero() {
		s.Zero()
		return out, fmt.Errorf("invalid private scalar")
	}
	key := secp256k1.NewPrivateKey(&s)
	copy(out[:], key.PubKey().SerializeCompressed())
	key.Zero()
	s.Zero()
	return out, nil
}

// AddScalars computes (a + b) mod n, the child-key step of BIP-32 CKD.
// Fails if a is not a valid scalar (zero or >= n) or the sum is zero.
func AddScalars(a, b *[32]byte) ([32]byte, error) {
	var out [32]byte
	var sa, sb secp256k1.ModNScalar
	if overflow := sa.SetBytes(a); overflow != 0 || sa.IsZero() {
		sa.Zero()
		return out, fmt.Errorf("invalid scalar")
	}
	sb.SetBytes(b)
	sa.Add(&sb)
	if sa.IsZero() {
		sa.Zero()
		sb.Zero()
		return out, fmt.Errorf("zero child scalar")
	}
	sa.PutBytes(&out)
	sa.Zero()
	sb.Zero()
	return out, nil
}

// SignDigest produces a compact 64-byte R||S ECDSA signature over a
// pre-hashed 32-byte digest.
func SignDigest(priv *[32]byte, digest [32]byte) ([64]byte, error) {
	var out [64]byte
	var s secp256k1.ModNScalar
	if overflow := s.SetBytes(priv); overflow != 0 || s.IsZero() {
		s.Zero()
		return out, fmt.Errorf("invalid private scalar")
	}
	key := secp256k1.NewPrivateKey(&s)
	sig := ecdsa.Sign(key, digest[:])
	key.Zero()
	s.Zero()

	r, sv := sig.R(), sig.S()
	r.PutBytesUnchecked(out[:32])
	sv.PutBytesUnchecked(out[32:])
	return out, nil
}

// SignDoubleHash signs SHA-256(SHA-256(data)) with SignDigest.
func SignDoubleHash(priv *[32]byte, data []byte) ([64]byte, error) {
	return SignDigest(priv, DoubleSha256(data))
}

// VerifyDigest checks a compact R||S signature against a digest and a
// compressed public key. Returns false on any parse or verify failure.
func VerifyDigest(pubKey []byte, digest [32]byte, sig [64]byte) bool {
	pub, err := secp256k1.ParsePubKey(pubKey)
	if err != nil {
		return false
	}
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow {
		return false
	}
	if overflow := s.SetByteSlice(sig[32:]); overflow {
		return false
	}
	return ecdsa.NewSignature(&r, &s).Verify(digest[:], pub)
}

// ParsePubKey validates a serialized compressed or uncompressed public key.
func ParsePubKey(pubKey []byte) error {
	_, err := secp256k1.ParsePubKey(pubKey)
	if err != nil {
		return fmt.Errorf("parse public key: %w", err)
	}
	return nil
}
