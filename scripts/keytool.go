// keytool.go prints the pubkey, pubkey hash, address, and WIF for a
// hex-encoded private key file.
// Usage: go run scripts/keytool.go <keyfile> [testnet]
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/Quillon-tech/quillon-vault/config"
	"github.com/Quillon-tech/quillon-vault/pkg/crypto"
	"github.com/Quillon-tech/quillon-vault/pkg/types"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: keytool <keyfile> [testnet]")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	keyBytes, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(keyBytes) != 32 {
		fmt.Fprintf(os.Stderr, "key is %d bytes, want 32\n", len(keyBytes))
		os.Exit(1)
	}

	params := config.MainnetParams()
	if len(os.Args) > 2 && os.Args[2] == "testnet" {
		params = config.TestnetParams()
	}

	var priv [32]byte
	copy(priv[:], keyBytes)
	pub, err := crypto.PubKey33(&priv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	hash := types.PubKeyHash(pub[:])

	fmt.Printf("pubkey=%s\n", hex.EncodeToString(pub[:]))
	fmt.Printf("pubkeyhash=%s\n", hex.EncodeToString(hash[:]))
	fmt.Printf("address=%s\n", types.EncodeAddress(pub[:], params.AddressVersion))
	fmt.Printf("wif=%s\n", types.EncodeWIF(&priv, params.WIFVersion))
}
