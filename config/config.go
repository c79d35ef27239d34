// Package config handles application configuration.
//
// Configuration is split into two categories:
//   - Network parameters: version bytes baked into addresses and extended
//     keys, fixed per network
//   - Runtime settings: data directory, storage backend, logging, can vary
//     per invocation
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Params holds the version bytes a network bakes into its serialized
// formats: P2PKH addresses, WIF private keys, and BIP-32 extended keys.
type Params struct {
	AddressVersion byte   // Base58Check prefix for P2PKH addresses
	WIFVersion     byte   // Base58Check prefix for WIF private keys
	XPrvVersion    uint32 // 4-byte prefix for extended private keys
	XPubVersion    uint32 // 4-byte prefix for extended public keys
}

// MainnetParams returns the Bitcoin mainnet version bytes.
func MainnetParams() Params {
	return Params{
		AddressVersion: 0x00,
		WIFVersion:     0x80,
		XPrvVersion:    0x0488ADE4,
		XPubVersion:    0x0488B21E,
	}
}

// TestnetParams returns the Bitcoin testnet version bytes.
func TestnetParams() Params {
	return Params{
		AddressVersion: 0x6F,
		WIFVersion:     0xEF,
		XPrvVersion:    0x04358394,
		XPubVersion:    0x043587CF,
	}
}

// ParamsFor returns the version bytes for the given network.
func ParamsFor(network NetworkType) Params {
	if network == Testnet {
		return TestnetParams()
	}
	return MainnetParams()
}

// StorageBackend selects where the master secret is persisted.
type StorageBackend string

const (
	// StorageBadger persists the secret in a Badger database under DataDir.
	StorageBadger StorageBackend = "badger"
	// StorageMemory keeps the secret in process memory only.
	StorageMemory StorageBackend = "memory"
)

// Config holds runtime settings. These can vary between invocations
// without changing what any derived key or address looks like.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Secret storage
	Storage StorageConfig

	// Logging
	Log LogConfig
}

// StorageConfig holds secret-storage settings.
type StorageConfig struct {
	Backend StorageBackend `conf:"storage.backend"`
	// Sealed wraps the backend with passphrase-based encryption.
	Sealed bool `conf:"storage.sealed"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the default data directory for the current OS.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".quillon"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Quillon")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Quillon")
		}
		return filepath.Join(home, "AppData", "Roaming", "Quillon")
	default:
		return filepath.Join(home, ".quillon")
	}
}

// NetworkDir returns the per-network subdirectory of the data directory.
func (c *Config) NetworkDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// SecretsDir returns the secret-storage directory.
func (c *Config) SecretsDir() string {
	return filepath.Join(c.NetworkDir(), "secrets")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "quillon.conf")
}
