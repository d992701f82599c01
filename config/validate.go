package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validNetworks lists the accepted Algorand network names.
var validNetworks = map[string]bool{
	"mainnet":  true,
	"testnet":  true,
	"betanet":  true,
	"localnet": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.AlgodURL == "" {
		return ErrEmptyAlgodURL
	}
	if err := validateURL(cfg.AlgodURL); err != nil {
		return fmt.Errorf("%w: %w", ErrEmptyAlgodURL, err)
	}

	if cfg.VaultAddr == "" {
		return ErrEmptyVaultAddr
	}
	if err := validateURL(cfg.VaultAddr); err != nil {
		return fmt.Errorf("%w: %w", ErrEmptyVaultAddr, err)
	}

	if !validNetworks[strings.ToLower(cfg.Network)] {
		return ErrInvalidNetwork
	}

	if cfg.KeyPrefix == "" {
		return ErrEmptyKeyPrefix
	}

	if cfg.ApprovalTimeout <= 0 || cfg.SessionTTL <= 0 {
		return ErrInvalidTimeout
	}

	if cfg.ConfirmationRounds == 0 {
		return ErrInvalidRounds
	}

	return nil
}

// validateURL checks that raw parses as an absolute http(s) URL.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
