package wallet

import (
	"errors"
	"strings"
	"testing"

	"github.com/Quillon-tech/quillon-vault/config"
	"github.com/Quillon-tech/quillon-vault/internal/hdkey"
	"github.com/Quillon-tech/quillon-vault/internal/mnemonic"
	"github.com/Quillon-tech/quillon-vault/internal/storage"
)

// testWallet returns an unseeded wallet over an in-memory store.
func testWallet(t *testing.T, opts ...Option) *Wallet {
	t.Helper()
	return New(storage.NewMemory(), config.MainnetParams(), opts...)
}

// testXPrv builds a deterministic master extended private key.
func testXPrv(t *testing.T) string {
	t.Helper()
	seed := make([]byte, 64)
	for i := range seed {
		seed[i] = byte(i*11 + 3)
	}
	node, err := hdkey.FromSeed(seed)
	if err != nil {
		t.Fatalf("FromSeed() error: %v", err)
	}
	defer node.Zero()
	return hdkey.XPrv(node, config.MainnetParams().XPrvVersion)
}

// testMnemonic returns a valid 12-word phrase.
func testMnemonic(t *testing.T) string {
	t.Helper()
	entropy := make([]byte, 16)
	for i := range entropy {
		entropy[i] = byte(i * 13)
	}
	phrase, err := mnemonic.Encode(entropy)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	return phrase
}

func TestIsSeeded_FreshWallet(t *testing.T) {
	w := testWallet(t)
	if w.IsSeeded() {
		t.Error("fresh wallet reports seeded")
	}
}

func TestImportXPrv(t *testing.T) {
	w := testWallet(t)
	xprv := testXPrv(t)

	if err := w.ImportXPrv(xprv); err != nil {
		t.Fatalf("ImportXPrv() error: %v", err)
	}
	if !w.IsSeeded() {
		t.Fatal("wallet not seeded after import")
	}

	// The master extended key round-trips through storage.
	got, err := w.XPrv("m/")
	if err != nil {
		t.Fatalf("XPrv() error: %v", err)
	}
	if got != xprv {
		t.Errorf("XPrv(m/) = %q, want the imported key", got)
	}
}

func TestImportXPrv_Format(t *testing.T) {
	w := testWallet(t)
	xprv := testXPrv(t)

	tests := []struct {
		name string
		xprv string
	}{
		{"empty", ""},
		{"truncated", xprv[:60]},
		{"padded", xprv + "x"},
		{"corrupted", "x" + xprv[1:]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.ImportXPrv(tt.xprv)
			if !errors.Is(err, ErrFormat) {
				t.Errorf("ImportXPrv() error = %v, want ErrFormat", err)
			}
			if w.IsSeeded() {
				t.Error("failed import left the wallet seeded")
			}
		})
	}
}

func TestSeedFromMnemonic(t *testing.T) {
	phrase := testMnemonic(t)

	w1 := testWallet(t)
	if err := w1.SeedFromMnemonic(phrase, ""); err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	if !w1.IsSeeded() {
		t.Fatal("wallet not seeded")
	}

	// Same phrase, same master key.
	w2 := testWallet(t)
	if err := w2.SeedFromMnemonic(phrase, ""); err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	x1, _ := w1.XPrv("m/")
	x2, _ := w2.XPrv("m/")
	if x1 != x2 {
		t.Error("same mnemonic produced different master keys")
	}

	// A passphrase changes the master key.
	w3 := testWallet(t)
	if err := w3.SeedFromMnemonic(phrase, "extra"); err != nil {
		t.Fatalf("SeedFromMnemonic() with passphrase error: %v", err)
	}
	x3, _ := w3.XPrv("m/")
	if x3 == x1 {
		t.Error("passphrase did not change the master key")
	}
}

func TestSeedFromMnemonic_Checksum(t *testing.T) {
	w := testWallet(t)
	tests := []struct {
		name   string
		phrase string
	}{
		{"word not on list", "blorp " + strings.Join(strings.Fields(testMnemonic(t))[1:], " ")},
		{"broken checksum", strings.Repeat("abandon ", 11) + "abandon"},
		{"wrong word count", "abandon abandon abandon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.SeedFromMnemonic(tt.phrase, "")
			if !errors.Is(err, ErrChecksum) {
				t.Errorf("SeedFromMnemonic() error = %v, want ErrChecksum", err)
			}
			if w.IsSeeded() {
				t.Error("rejected mnemonic left the wallet seeded")
			}
		})
	}
}

func TestSeedFromRandom(t *testing.T) {
	w1 := testWallet(t)
	if err := w1.SeedFromRandom(); err != nil {
		t.Fatalf("SeedFromRandom() error: %v", err)
	}
	if !w1.IsSeeded() {
		t.Fatal("wallet not seeded")
	}

	w2 := testWallet(t)
	if err := w2.SeedFromRandom(); err != nil {
		t.Fatalf("SeedFromRandom() error: %v", err)
	}
	x1, _ := w1.XPrv("m/")
	x2, _ := w2.XPrv("m/")
	if x1 == x2 {
		t.Error("two random seedings produced the same master key")
	}
}

func TestSeedFromMnemonic_EmptyPhraseSeedsFromRandom(t *testing.T) {
	w := testWallet(t)
	if err := w.SeedFromMnemonic("", "ignored"); err != nil {
		t.Fatalf("SeedFromMnemonic(\"\") error: %v", err)
	}
	if !w.IsSeeded() {
		t.Error("empty phrase did not seed from random")
	}
}

func TestSeedFromMnemonic_Progress(t *testing.T) {
	var calls int
	w := testWallet(t, WithProgress(func(current, total uint32) { calls++ }))
	if err := w.SeedFromMnemonic(testMnemonic(t), ""); err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	if calls == 0 {
		t.Error("progress callback never invoked")
	}
}

func TestErase(t *testing.T) {
	w := testWallet(t)
	if err := w.SeedFromRandom(); err != nil {
		t.Fatalf("SeedFromRandom() error: %v", err)
	}
	if err := w.Erase(); err != nil {
		t.Fatalf("Erase() error: %v", err)
	}
	if w.IsSeeded() {
		t.Error("wallet still seeded after Erase()")
	}
	if _, err := w.XPrv("m/"); !errors.Is(err, ErrNotSeeded) {
		t.Errorf("XPrv() after erase error = %v, want ErrNotSeeded", err)
	}
}

// failingStore drops writes, so write verification must fail.
type failingStore struct {
	storage.SecretStore
}

func (f *failingStore) Store(priv, chainCode *[32]byte) error { return nil }

func TestPersist_WriteVerification(t *testing.T) {
	w := New(&failingStore{storage.NewMemory()}, config.MainnetParams())
	err := w.ImportXPrv(testXPrv(t))
	if !errors.Is(err, ErrStorageVerify) {
		t.Errorf("ImportXPrv() error = %v, want ErrStorageVerify", err)
	}
}
