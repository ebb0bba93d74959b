// Package config resolves runtime configuration from flags, environment
// variables, and an optional .env file, in that order of precedence.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	DefaultConfigDir  = ".pebblomcp"
	DefaultPolicyFile = "policy.yaml"
	DefaultAuditFile  = "audit.jsonl"
	DefaultListenAddr = ":8080"
)

// Config is the resolved runtime configuration.
type Config struct {
	ConfigDir    string
	PolicyPath   string
	AuditLogPath string
	AuditDBPath  string // optional SQLite audit store; empty disables it
	DataDir      string // optional records directory; empty uses seed data
	ListenAddr   string
}

// Load resolves the configuration. Flag values take precedence over
// environment variables; unset values fall back to files under
// ~/.pebblomcp. A .env file is loaded first if present.
func Load(policyPath, auditLogPath, listenAddr string) (*Config, error) {
	_ = godotenv.Load()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configDir := filepath.Join(homeDir, DefaultConfigDir)
	if err := ensureDir(configDir); err != nil {
		return nil, err
	}

	cfg := &Config{
		ConfigDir:   configDir,
		AuditDBPath: os.Getenv("PEBBLO_AUDIT_DB"),
		DataDir:     os.Getenv("PEBBLO_DATA_DIR"),
	}

	if policyPath == "" {
		policyPath = getEnv("PEBBLO_POLICY_PATH", filepath.Join(configDir, DefaultPolicyFile))
	}
	cfg.PolicyPath = policyPath

	if auditLogPath == "" {
		auditLogPath = getEnv("PEBBLO_AUDIT_LOG", filepath.Join(configDir, DefaultAuditFile))
	}
	cfg.AuditLogPath = auditLogPath

	if listenAddr == "" {
		listenAddr = getEnv("PEBBLO_LISTEN_ADDR", DefaultListenAddr)
	}
	cfg.ListenAddr = listenAddr

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0700)
	}
	return nil
}
