package config

import "errors"

var (
	// ErrEmptyAlgodURL indicates no Algorand node endpoint was configured.
	ErrEmptyAlgodURL = errors.New("config: algod URL must not be empty")

	// ErrEmptyVaultAddr indicates no Vault address was configured.
	ErrEmptyVaultAddr = errors.New("config: vault address must not be empty")

	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\", \"testnet\", \"betanet\", or \"localnet\")")

	// ErrEmptyKeyPrefix indicates the custodial key prefix is empty.
	ErrEmptyKeyPrefix = errors.New("config: key prefix must not be empty")

	// ErrInvalidTimeout indicates a timeout is zero or negative.
	ErrInvalidTimeout = errors.New("config: timeouts must be positive")

	// ErrInvalidDuration indicates a duration environment variable is malformed.
	ErrInvalidDuration = errors.New("config: invalid duration value")

	// ErrInvalidRounds indicates the confirmation round count is malformed or zero.
	ErrInvalidRounds = errors.New("config: confirmation rounds must be a positive integer")
)
