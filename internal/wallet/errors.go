package wallet

import "errors"

// Error taxonomy. Every operation fails with exactly one of these kinds,
// wrapped with context; callers discriminate with errors.Is. No failure is
// ever downgraded to a default value.
var (
	// ErrFormat reports malformed input: keypath grammar, wrong-length
	// serialized keys or addresses, malformed transaction encoding.
	ErrFormat = errors.New("format error")

	// ErrNotSeeded reports a derivation-dependent operation invoked while
	// the master secret is erased.
	ErrNotSeeded = errors.New("wallet is not seeded")

	// ErrDerivation reports a failed child-key-derivation step.
	ErrDerivation = errors.New("key derivation failed")

	// ErrChecksum reports a mnemonic word-count or checksum mismatch.
	ErrChecksum = errors.New("mnemonic checksum failure")

	// ErrPolicyNoChange reports a multi-output transaction with no output
	// paying back to the wallet's own change address. It exists to block
	// man-in-the-middle substitution of the change output.
	ErrPolicyNoChange = errors.New("no change output recognized")

	// ErrPrimitive reports failure inside an underlying crypto primitive.
	ErrPrimitive = errors.New("crypto primitive failure")

	// ErrStorageVerify reports a persisted write that does not read back
	// seeded, or a secret record that cannot be loaded.
	ErrStorageVerify = errors.New("storage verification failed")
)
