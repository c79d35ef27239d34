// Package mnemonic implements the BIP-39 entropy/wordlist codec and seed
// stretching used to back up and restore the master secret.
//
// Encode accepts every entropy length the standard allows (16, 20, 24, 28,
// 32 bytes) and so can emit 15- and 21-word phrases, but Validate accepts
// only 12-, 18-, and 24-word phrases. The asymmetry is deliberate and
// load-bearing: restore paths must only ever accept the word counts the
// device itself hands out for backups.
package mnemonic

import (
	"crypto/sha512"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/crypto/pbkdf2"

	"github.com/Quillon-tech/quillon-vault/internal/zero"
	"github.com/Quillon-tech/quillon-vault/pkg/crypto"
)

const (
	// MinEntropyBytes and MaxEntropyBytes bound Encode's input.
	MinEntropyBytes = 16
	MaxEntropyBytes = 32

	// MaxWords is the longest phrase any entropy length can produce.
	MaxWords = 24

	// SeedSize is the length of a stretched seed in bytes.
	SeedSize = 64

	// pbkdf2Rounds is the iteration count fixed by BIP-39.
	pbkdf2Rounds = 2048
)

// ErrEntropyLen reports an entropy length outside {16,20,24,28,32} bytes.
var ErrEntropyLen = fmt.Errorf("entropy length must be a multiple of 4 in [%d, %d] bytes", MinEntropyBytes, MaxEntropyBytes)

// wordlist is the fixed 2048-word English list.
var wordlist = wordlists.English

// Wordlist returns the fixed 2048-word list, index-addressable by the
// 11-bit groups Encode produces.
func Wordlist() []string {
	return wordlist
}

// Encode converts raw entropy into a mnemonic phrase. The SHA-256 checksum
// of the entropy contributes its leading len*8/32 bits, and the combined
// bit-string is sliced into 11-bit groups (most significant bit first) that
// index the wordlist.
func Encode(entropy []byte) (string, error) {
	n := len(entropy)
	if n%4 != 0 || n < MinEntropyBytes || n > MaxEntropyBytes {
		return "", ErrEntropyLen
	}

	checksum := crypto.Sha256(entropy)
	bits := make([]byte, n+1)
	copy(bits, entropy)
	bits[n] = checksum[0]
	defer zero.Bytes(bits)

	wordCount := n * 3 / 4
	var b strings.Builder
	for i := 0; i < wordCount; i++ {
		idx := 0
		for j := 0; j < 11; j++ {
			bit := i*11 + j
			idx <<= 1
			if bits[bit/8]&(1<<(7-bit%8)) != 0 {
				idx |= 1
			}
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(wordlist[idx])
	}
	return b.String(), nil
}

// Validate reports whether text is an acceptable restore phrase: exactly
// 12, 18, or 24 words, every word on the wordlist, and the checksum bits
// matching SHA-256 of the reconstructed entropy.
func Validate(text string) bool {
	words := splitWords(text)
	n := len(words)
	if n != 12 && n != 18 && n != 24 {
		return false
	}

	// Reconstruct entropy || checksum bits from the word indices.
	bits := make([]byte, MaxEntropyBytes+1)
	defer zero.Bytes(bits)
	bi := 0
	for _, word := range words {
		idx := lookupWord(word)
		if idx < 0 {
			return false
		}
		for k := 10; k >= 0; k-- {
			if idx&(1<<k) != 0 {
				bits[bi/8] |= 1 << (7 - bi%8)
			}
			bi++
		}
	}

	entropyLen := n * 4 / 3
	got := bits[entropyLen]
	h := crypto.Sha256(bits[:entropyLen])
	defer zero.Bytea32(&h)

	var mask byte
	switch n {
	case 12:
		mask = 0xF0
	case 18:
		mask = 0xFC
	case 24:
		mask = 0xFF
	}
	return h[0]&mask == got&mask
}

// splitWords splits a phrase on spaces and commas, capped at MaxWords+1 so
// an over-long phrase still fails the word-count check without unbounded
// allocation.
func splitWords(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ','
	})
	if len(fields) > MaxWords+1 {
		fields = fields[:MaxWords+1]
	}
	return fields
}

// lookupWord linear-scans the wordlist for an exact match, returning -1
// when absent.
func lookupWord(word string) int {
	for i, w := range wordlist {
		if w == word {
			return i
		}
	}
	return -1
}

// ProgressFunc observes seed stretching as (current, total) iteration
// counts. It must not block; it is called on the stretching goroutine.
type ProgressFunc func(current, total uint32)

// ToSeed stretches a mnemonic phrase into a 64-byte seed with
// PBKDF2-HMAC-SHA512 over the salt "mnemonic" || passphrase. The phrase is
// not validated here; callers gate on Validate first.
func ToSeed(mnemonic, passphrase string, progress ProgressFunc) [SeedSize]byte {
	if progress != nil {
		progress(0, pbkdf2Rounds)
	}
	salt := "mnemonic" + passphrase
	raw := pbkdf2.Key([]byte(mnemonic), []byte(salt), pbkdf2Rounds, SeedSize, sha512.New)
	var seed [SeedSize]byte
	copy(seed[:], raw)
	zero.Bytes(raw)
	if progress != nil {
		progress(pbkdf2Rounds, pbkdf2Rounds)
	}
	return seed
}
