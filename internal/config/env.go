package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by the CLI.
const (
	EnvAlgorithm = "DITHER_ALGORITHM"
	EnvThreshold = "DITHER_THRESHOLD"
	EnvLogLevel  = "DITHER_LOG_LEVEL"
	EnvBackend   = "DITHER_BACKEND"
	EnvWorkers   = "DITHER_WORKERS"
	EnvConfig    = "DITHER_CONFIG"
)

// LoadDotEnv loads .env files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Get returns the value of the environment variable key if set.
// If not set, and key + "_FILE" is set, the file at that path is read and
// its trimmed contents are returned. If neither are set, def is returned.
func Get(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if path := os.Getenv(key + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return def
}

// GetInt returns the integer value of Get(key, ""), or def when unset or
// malformed.
func GetInt(key string, def int) int {
	if val := Get(key, ""); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

// ApplyEnv overrides the document from DITHER_ALGORITHM, DITHER_THRESHOLD
// and DITHER_BACKEND.
func (d *Document) ApplyEnv() error {
	if a := Get(EnvAlgorithm, ""); a != "" {
		d.Settings.Algorithm = a
	}
	if th := Get(EnvThreshold, ""); th != "" {
		v, err := strconv.Atoi(th)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvThreshold, err)
		}
		d.Settings.Threshold = &v
	}
	if b := Get(EnvBackend, ""); b != "" {
		d.Backend = b
	}
	return d.Settings.validate()
}
