// Package config holds runtime configuration for the intent engine:
// ledger node access, custody (Vault transit) access, and the
// timeouts governing approval and chat sessions.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the engine.
type Config struct {
	// AlgodURL is the Algorand node endpoint (e.g. http://localhost:4001).
	AlgodURL string `json:"algod_url"`
	// AlgodToken is the node API token. May be empty for public endpoints.
	AlgodToken string `json:"algod_token"`

	// VaultAddr is the Vault server address (e.g. http://localhost:8200).
	VaultAddr string `json:"vault_addr"`
	// VaultToken authenticates against Vault.
	VaultToken string `json:"vault_token"`
	// TransitMount is the mount path of the transit secrets engine.
	TransitMount string `json:"transit_mount"`
	// KeyPrefix namespaces custodial key names within the transit mount.
	KeyPrefix string `json:"key_prefix"`

	// Network selects the Algorand network.
	Network string `json:"network"`

	// ApprovalTimeout bounds how long a pending signing approval may wait.
	ApprovalTimeout time.Duration `json:"approval_timeout"`
	// SessionTTL is the idle lifetime of a chat session.
	SessionTTL time.Duration `json:"session_ttl"`
	// ConfirmationRounds is how many rounds to wait for confirmation.
	ConfirmationRounds uint64 `json:"confirmation_rounds"`
}

// DefaultConfig returns a Config with sensible defaults for a local
// testnet setup. AlgodURL and VaultAddr still need to be set explicitly
// for anything beyond localnet.
func DefaultConfig() Config {
	return Config{
		AlgodURL:           "http://localhost:4001",
		VaultAddr:          "http://localhost:8200",
		TransitMount:       "transit",
		KeyPrefix:          "algointent",
		Network:            "testnet",
		ApprovalTimeout:    2 * time.Minute,
		SessionTTL:         24 * time.Hour,
		ConfirmationRounds: 4,
	}
}

// FromEnv builds a Config from ALGOINTENT_* environment variables,
// starting from DefaultConfig for anything unset.
//
// Recognized variables: ALGOINTENT_ALGOD_URL, ALGOINTENT_ALGOD_TOKEN,
// ALGOINTENT_VAULT_ADDR, ALGOINTENT_VAULT_TOKEN, ALGOINTENT_TRANSIT_MOUNT,
// ALGOINTENT_KEY_PREFIX, ALGOINTENT_NETWORK, ALGOINTENT_APPROVAL_TIMEOUT,
// ALGOINTENT_SESSION_TTL, ALGOINTENT_CONFIRMATION_ROUNDS.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("ALGOINTENT_ALGOD_URL"); v != "" {
		cfg.AlgodURL = v
	}
	if v := os.Getenv("ALGOINTENT_ALGOD_TOKEN"); v != "" {
		cfg.AlgodToken = v
	}
	if v := os.Getenv("ALGOINTENT_VAULT_ADDR"); v != "" {
		cfg.VaultAddr = v
	}
	if v := os.Getenv("ALGOINTENT_VAULT_TOKEN"); v != "" {
		cfg.VaultToken = v
	}
	if v := os.Getenv("ALGOINTENT_TRANSIT_MOUNT"); v != "" {
		cfg.TransitMount = v
	}
	if v := os.Getenv("ALGOINTENT_KEY_PREFIX"); v != "" {
		cfg.KeyPrefix = v
	}
	if v := os.Getenv("ALGOINTENT_NETWORK"); v != "" {
		cfg.Network = v
	}
	if v := os.Getenv("ALGOINTENT_APPROVAL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, ErrInvalidDuration
		}
		cfg.ApprovalTimeout = d
	}
	if v := os.Getenv("ALGOINTENT_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, ErrInvalidDuration
		}
		cfg.SessionTTL = d
	}
	if v := os.Getenv("ALGOINTENT_CONFIRMATION_ROUNDS"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, ErrInvalidRounds
		}
		cfg.ConfirmationRounds = n
	}

	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
