package types

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcutil/base58"

	"github.com/Quillon-tech/quillon-vault/pkg/crypto"
)

// generator is the compressed encoding of the secp256k1 base point; its
// P2PKH mainnet address is the well-known 1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH.
const generatorHex = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"

func generatorPubKey(t *testing.T) []byte {
	t.Helper()
	pub, err := hex.DecodeString(generatorHex)
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	return pub
}

func TestPubKeyHash_Compressed(t *testing.T) {
	pub := generatorPubKey(t)
	want, _ := hex.DecodeString("751e76e8199196d454941c45d1b3a323f1433bd6")

	got := PubKeyHash(pub)
	if !bytes.Equal(got[:], want) {
		t.Errorf("PubKeyHash() = %x, want %x", got, want)
	}
}

func TestPubKeyHash_SpecialForms(t *testing.T) {
	uncompressed := make([]byte, 65)
	uncompressed[0] = 0x04
	gotUncompressed := PubKeyHash(uncompressed)
	wantUncompressed := crypto.Hash160(uncompressed)
	if gotUncompressed != wantUncompressed {
		t.Error("uncompressed form not hashed over 65 bytes")
	}

	// Point at infinity: only the single 0x00 marker byte is hashed,
	// regardless of trailing content.
	infinity := make([]byte, 33)
	gotInfinity := PubKeyHash(infinity)
	wantInfinity := crypto.Hash160([]byte{0x00})
	if gotInfinity != wantInfinity {
		t.Error("point at infinity not hashed over the single marker byte")
	}
}

func TestEncodeAddress_KnownVector(t *testing.T) {
	got := EncodeAddress(generatorPubKey(t), 0x00)
	want := "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH"
	if got != want {
		t.Errorf("EncodeAddress() = %q, want %q", got, want)
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		version byte
	}{
		{"mainnet", 0x00},
		{"testnet", 0x6F},
		{"arbitrary", 0x30},
	}

	pub := generatorPubKey(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := EncodeAddress(pub, tt.version)
			version, hash, err := DecodeAddress(addr)
			if err != nil {
				t.Fatalf("DecodeAddress() error: %v", err)
			}
			if version != tt.version {
				t.Errorf("version = %#x, want %#x", version, tt.version)
			}
			want := PubKeyHash(pub)
			if hash != want {
				t.Errorf("hash = %x, want %x", hash, want)
			}
		})
	}
}

func TestDecodeAddress_Invalid(t *testing.T) {
	tests := []struct {
		name string
		addr string
	}{
		{"empty", ""},
		{"garbage", "not-an-address"},
		{"corrupted checksum", func() string {
			addr := "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH"
			return addr[:len(addr)-1] + flipBase58Char(addr[len(addr)-1])
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := DecodeAddress(tt.addr); err == nil {
				t.Errorf("DecodeAddress(%q) accepted invalid input", tt.addr)
			}
		})
	}
}

// flipBase58Char returns a different valid base58 character.
func flipBase58Char(c byte) string {
	if c == 'z' {
		return "x"
	}
	return "z"
}

func TestWIF_RoundTrip(t *testing.T) {
	var priv [32]byte
	for i := range priv {
		priv[i] = byte(i + 1)
	}

	wif := EncodeWIF(&priv, 0x80)
	if !strings.HasPrefix(wif, "K") && !strings.HasPrefix(wif, "L") {
		t.Errorf("mainnet compressed WIF should start with K or L, got %q", wif)
	}

	version, got, err := DecodeWIF(wif)
	if err != nil {
		t.Fatalf("DecodeWIF() error: %v", err)
	}
	if version != 0x80 {
		t.Errorf("version = %#x, want 0x80", version)
	}
	if got != priv {
		t.Errorf("private key did not round-trip")
	}
}

func TestDecodeWIF_RejectsUncompressedForm(t *testing.T) {
	// A 32-byte payload without the compression flag is the legacy
	// uncompressed form, which this vault never emits.
	var priv [32]byte
	priv[31] = 1
	legacy := encodeLegacyWIF(t, &priv, 0x80)
	if _, _, err := DecodeWIF(legacy); err == nil {
		t.Error("DecodeWIF() accepted an uncompressed-form key")
	}
}

func encodeLegacyWIF(t *testing.T, priv *[32]byte, version byte) string {
	t.Helper()
	return base58.CheckEncode(priv[:], version)
}
