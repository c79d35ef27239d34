// quillon-cli is a host-side client for the vault core: it seeds the
// wallet, reports extended keys and addresses, audits transaction outputs,
// and produces signatures. Every command prints a single JSON object to
// stdout; errors carry the command name so a host can attribute them.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/Quillon-tech/quillon-vault/config"
	"github.com/Quillon-tech/quillon-vault/internal/log"
	"github.com/Quillon-tech/quillon-vault/internal/mnemonic"
	"github.com/Quillon-tech/quillon-vault/internal/storage"
	"github.com/Quillon-tech/quillon-vault/internal/wallet"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	dataDir := config.DefaultDataDir()
	network := "mainnet"
	backend := ""
	sealed := false
	logLevel := ""

	// Scan for global flags before the subcommand.
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = args[0][len("--network="):]
			args = args[1:]
		case args[0] == "--storage" && len(args) > 1:
			backend = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--storage="):
			backend = args[0][len("--storage="):]
			args = args[1:]
		case args[0] == "--sealed":
			sealed = true
			args = args[1:]
		case args[0] == "--log-level" && len(args) > 1:
			logLevel = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--log-level="):
			logLevel = args[0][len("--log-level="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cfg, err := loadConfig(dataDir, network, backend, sealed, logLevel)
	if err != nil {
		fatal("config: %v", err)
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fatal("init logging: %v", err)
	}

	cmd := args[0]
	cmdArgs := args[1:]

	// wordlist and backup are pure; they need no storage.
	switch cmd {
	case "wordlist":
		cmdWordlist()
		return
	case "backup":
		cmdBackup(cmdArgs)
		return
	case "help", "--help", "-h":
		usage()
		return
	}

	// The strict-change matcher is fixed at construction, so signtx's
	// --strict flag has to be known before the wallet is built.
	var walletOpts []wallet.Option
	if cmd == "signtx" && hasFlag(cmdArgs, "--strict") {
		walletOpts = append(walletOpts, wallet.WithStrictChange())
	}

	w, closeStore, err := openWallet(cfg, walletOpts...)
	if err != nil {
		emitError(cmd, err)
	}
	defer closeStore()

	switch cmd {
	case "seed":
		cmdSeed(w, cmdArgs)
	case "xprv":
		cmdXPrv(w, cmdArgs)
	case "xpub":
		cmdXPub(w, cmdArgs)
	case "address":
		cmdAddress(w, cmdArgs)
	case "wif":
		cmdWIF(w, cmdArgs)
	case "checkaddr":
		cmdCheckAddr(w, cmdArgs)
	case "id":
		cmdID(w)
	case "sign":
		cmdSign(w, cmdArgs)
	case "signtx":
		cmdSignTx(w, cmdArgs)
	case "erase":
		cmdErase(w)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: quillon-cli [global flags] <command> [flags]

Global flags:
  --datadir <path>    Data directory (default: ~/.quillon)
  --network <net>     mainnet (default) or testnet
  --storage <b>       Secret storage backend: badger (default) or memory
  --sealed            Encrypt stored secrets under a passphrase (prompted)
  --log-level <lvl>   trace, debug, info (default), warn, error

Commands:
  seed [--mnemonic "..."] [--passphrase] [--xprv <key>]
                                  Seed the wallet: from a mnemonic, from an
                                  extended private key, or from fresh
                                  randomness when neither is given
  backup --entropy <hex>          Encode entropy bytes as a mnemonic
  id                              Report the wallet identifier
  xpub [--path <keypath>]         Report the extended public key
  xprv [--path <keypath>]         Report the extended private key
  address [--path <keypath>]      Report the address at a keypath
  wif [--path <keypath>]          Export the private key at a keypath (WIF)
  checkaddr --address <a> [--path <keypath>]
                                  Verify an address against a keypath
  sign --message <hex> [--path <keypath>] [--mode digest|hash]
                                  Sign a 32-byte digest or double-hashed bytes
  signtx --tx <hex> [--path <keypath>] [--change <keypath>] [--strict]
                                  Audit a raw transaction's outputs and sign it
  erase                           Wipe the stored master secret
  wordlist                        Print the mnemonic wordlist
`)
}

// loadConfig builds the effective config: defaults, then the config file
// if present, then the command-line overrides.
func loadConfig(dataDir, network, backend string, sealed bool, logLevel string) (*config.Config, error) {
	cfg := config.Default(config.NetworkType(network))
	cfg.DataDir = dataDir

	values, err := config.LoadFile(cfg.ConfigFile())
	if err != nil {
		return nil, err
	}
	if err := config.Apply(cfg, values); err != nil {
		return nil, err
	}

	// Flags given on the command line win over the file.
	cfg.Network = config.NetworkType(network)
	cfg.DataDir = dataDir
	if backend != "" {
		cfg.Storage.Backend = config.StorageBackend(backend)
	}
	if sealed {
		cfg.Storage.Sealed = true
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// hasFlag reports whether args carries the given boolean flag.
func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name || a == name+"=true" {
			return true
		}
	}
	return false
}

// openWallet opens the configured secret store and wraps it in a wallet.
func openWallet(cfg *config.Config, opts ...wallet.Option) (*wallet.Wallet, func(), error) {
	var (
		secrets storage.SecretStore
		blobs   storage.BlobStore
	)

	switch cfg.Storage.Backend {
	case config.StorageMemory:
		mem := storage.NewMemory()
		secrets, blobs = mem, mem
	default:
		bs, err := storage.NewBadger(cfg.SecretsDir())
		if err != nil {
			return nil, nil, fmt.Errorf("open secret storage: %w", err)
		}
		secrets, blobs = bs, bs
	}

	if cfg.Storage.Sealed {
		passphrase, err := readPassword("Storage passphrase: ")
		if err != nil {
			secrets.Close()
			return nil, nil, fmt.Errorf("read passphrase: %w", err)
		}
		sealedStore := storage.NewSealed(blobs, passphrase)
		for i := range passphrase {
			passphrase[i] = 0
		}
		secrets = sealedStore
	}

	params := config.ParamsFor(cfg.Network)
	opts = append(opts, wallet.WithProgress(stretchProgress))
	w := wallet.New(secrets, params, opts...)
	return w, func() { secrets.Close() }, nil
}

// stretchProgress logs seed-stretching progress instead of rendering it;
// a host UI would drive a progress bar from the same callback.
func stretchProgress(current, total uint32) {
	log.CLI.Debug().Uint32("round", current).Uint32("total", total).Msg("stretching seed")
}

// emit writes one JSON object to stdout.
func emit(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatal("encode output: %v", err)
	}
}

// emitError reports a command failure as JSON on stderr and exits.
func emitError(command string, err error) {
	enc := json.NewEncoder(os.Stderr)
	enc.Encode(map[string]string{
		"command": command,
		"error":   err.Error(),
	})
	os.Exit(1)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	return password, err
}

// ── seed ────────────────────────────────────────────────────────────────

func cmdSeed(w *wallet.Wallet, args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	phrase := fs.String("mnemonic", "", "Mnemonic to seed from (random when empty)")
	xprv := fs.String("xprv", "", "Extended private key to import instead")
	promptPass := fs.Bool("passphrase", false, "Prompt for a mnemonic passphrase")
	fs.Parse(args)

	if *xprv != "" {
		if *phrase != "" {
			emitError("seed", fmt.Errorf("--mnemonic and --xprv are mutually exclusive"))
		}
		if err := w.ImportXPrv(*xprv); err != nil {
			emitError("seed", err)
		}
	} else {
		passphrase := ""
		if *promptPass {
			pass, err := readPassword("Mnemonic passphrase: ")
			if err != nil {
				emitError("seed", fmt.Errorf("read passphrase: %w", err))
			}
			passphrase = string(pass)
		}
		if err := w.SeedFromMnemonic(*phrase, passphrase); err != nil {
			emitError("seed", err)
		}
	}

	id, err := w.ID()
	if err != nil {
		emitError("seed", err)
	}
	emit(map[string]interface{}{
		"command": "seed",
		"seeded":  true,
		"id":      id,
	})
}

// ── backup ──────────────────────────────────────────────────────────────

func cmdBackup(args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	entropyHex := fs.String("entropy", "", "Entropy to encode (16-32 hex-encoded bytes)")
	fs.Parse(args)

	if *entropyHex == "" {
		emitError("backup", fmt.Errorf("--entropy is required"))
	}
	entropy, err := hex.DecodeString(*entropyHex)
	if err != nil {
		emitError("backup", fmt.Errorf("entropy is not hex: %w", err))
	}

	phrase, err := mnemonic.Encode(entropy)
	if err != nil {
		emitError("backup", err)
	}
	emit(map[string]string{
		"command":  "backup",
		"mnemonic": phrase,
	})
}

// ── reports ─────────────────────────────────────────────────────────────

func pathFlag(fs *flag.FlagSet) *string {
	return fs.String("path", "m/", "Derivation keypath")
}

func cmdXPrv(w *wallet.Wallet, args []string) {
	fs := flag.NewFlagSet("xprv", flag.ExitOnError)
	path := pathFlag(fs)
	fs.Parse(args)

	xprv, err := w.XPrv(*path)
	if err != nil {
		emitError("xprv", err)
	}
	emit(map[string]string{"command": "xprv", "path": *path, "xprv": xprv})
}

func cmdXPub(w *wallet.Wallet, args []string) {
	fs := flag.NewFlagSet("xpub", flag.ExitOnError)
	path := pathFlag(fs)
	fs.Parse(args)

	xpub, err := w.XPub(*path)
	if err != nil {
		emitError("xpub", err)
	}
	emit(map[string]string{"command": "xpub", "path": *path, "xpub": xpub})
}

func cmdAddress(w *wallet.Wallet, args []string) {
	fs := flag.NewFlagSet("address", flag.ExitOnError)
	path := pathFlag(fs)
	fs.Parse(args)

	addr, err := w.Address(*path)
	if err != nil {
		emitError("address", err)
	}
	emit(map[string]string{"command": "address", "path": *path, "address": addr})
}

func cmdWIF(w *wallet.Wallet, args []string) {
	fs := flag.NewFlagSet("wif", flag.ExitOnError)
	path := pathFlag(fs)
	fs.Parse(args)

	wif, err := w.WIF(*path)
	if err != nil {
		emitError("wif", err)
	}
	emit(map[string]string{"command": "wif", "path": *path, "wif": wif})
}

func cmdCheckAddr(w *wallet.Wallet, args []string) {
	fs := flag.NewFlagSet("checkaddr", flag.ExitOnError)
	path := pathFlag(fs)
	address := fs.String("address", "", "Address to verify")
	fs.Parse(args)

	if *address == "" {
		emitError("checkaddr", fmt.Errorf("--address is required"))
	}

	match, err := w.CheckAddress(*address, *path)
	if err != nil {
		emitError("checkaddr", err)
	}
	emit(map[string]interface{}{
		"command": "checkaddr",
		"path":    *path,
		"address": *address,
		"match":   match,
	})
}

func cmdID(w *wallet.Wallet) {
	id, err := w.ID()
	if err != nil {
		emitError("id", err)
	}
	emit(map[string]string{"command": "id", "id": id})
}

// ── sign ────────────────────────────────────────────────────────────────

func cmdSign(w *wallet.Wallet, args []string) {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	path := pathFlag(fs)
	message := fs.String("message", "", "Message hex to sign")
	modeName := fs.String("mode", "digest", "digest (32-byte hex, signed as-is) or hash (double-SHA256 first)")
	fs.Parse(args)

	if *message == "" {
		emitError("sign", fmt.Errorf("--message is required"))
	}

	var mode wallet.SignMode
	switch *modeName {
	case "digest":
		mode = wallet.ModeDigest
	case "hash":
		mode = wallet.ModeDoubleHash
	default:
		emitError("sign", fmt.Errorf("unknown mode %q", *modeName))
	}

	sig, err := w.Sign(*message, *path, mode)
	if err != nil {
		emitError("sign", err)
	}
	emit(map[string]string{
		"command": "sign",
		"path":    *path,
		"sig":     sig.SigHex(),
		"pubkey":  sig.PubKeyHex(),
	})
}

func cmdSignTx(w *wallet.Wallet, args []string) {
	fs := flag.NewFlagSet("signtx", flag.ExitOnError)
	path := pathFlag(fs)
	rawTx := fs.String("tx", "", "Raw transaction hex")
	changePath := fs.String("change", "", "Keypath the change output must pay to")
	fs.Bool("strict", false, "Require the exact pay-to-pubkey-hash change template")
	fs.Parse(args)

	if *rawTx == "" {
		emitError("signtx", fmt.Errorf("--tx is required"))
	}

	sig, outputs, err := w.SignTransaction(*rawTx, *path, *changePath)
	if err != nil {
		emitError("signtx", err)
	}
	emit(map[string]interface{}{
		"command": "signtx",
		"path":    *path,
		"sig":     sig.SigHex(),
		"pubkey":  sig.PubKeyHex(),
		"outputs": outputs,
	})
}

// ── erase ───────────────────────────────────────────────────────────────

func cmdErase(w *wallet.Wallet) {
	if err := w.Erase(); err != nil {
		emitError("erase", err)
	}
	emit(map[string]interface{}{"command": "erase", "erased": true})
}

// ── wordlist ────────────────────────────────────────────────────────────

func cmdWordlist() {
	words := mnemonic.Wordlist()
	emit(map[string]interface{}{
		"command": "wordlist",
		"count":   len(words),
		"words":   words,
	})
}
