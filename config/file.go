package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile loads configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// Apply copies values from a loaded config file into cfg.
// Unknown keys are an error so typos do not silently fall back to defaults.
func Apply(cfg *Config, values map[string]string) error {
	for key, value := range values {
		switch key {
		case "network":
			cfg.Network = NetworkType(value)
		case "datadir":
			cfg.DataDir = value
		case "storage.backend":
			cfg.Storage.Backend = StorageBackend(value)
		case "storage.sealed":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("storage.sealed: %w", err)
			}
			cfg.Storage.Sealed = b
		case "log.level":
			cfg.Log.Level = value
		case "log.file":
			cfg.Log.File = value
		case "log.json":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("log.json: %w", err)
			}
			cfg.Log.JSON = b
		default:
			return fmt.Errorf("unknown config key %q", key)
		}
	}
	return nil
}
