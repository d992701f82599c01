package custody

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	vault "github.com/hashicorp/vault/api"
)

// SecretsBackend is the custody store capability consumed by the Service.
// Private key material never crosses this interface: keys are created and
// used for signing inside the store, and only public keys come back out.
type SecretsBackend interface {
	// CreateKey generates an ed25519 key under name if absent and returns
	// its public key. Creation is idempotent: repeated calls for the same
	// name return the existing key.
	CreateKey(ctx context.Context, name string) (ed25519.PublicKey, error)

	// ListKeys returns the names of all keys in the store's namespace.
	ListKeys(ctx context.Context) ([]string, error)

	// ReadKey returns the public key stored under name.
	ReadKey(ctx context.Context, name string) (ed25519.PublicKey, error)

	// Sign signs message with the key stored under name and returns a
	// "scheme:version:base64" signature envelope.
	Sign(ctx context.Context, name string, message []byte) (string, error)
}

// VaultTransit implements SecretsBackend against a Vault transit mount.
type VaultTransit struct {
	client *vault.Client
	mount  string
}

// NewVaultTransit connects to the Vault server at addr using token and
// operates on the transit engine mounted at mount (usually "transit").
func NewVaultTransit(addr, token, mount string) (*VaultTransit, error) {
	client, err := vault.NewClient(&vault.Config{Address: addr})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	client.SetToken(token)
	return &VaultTransit{client: client, mount: mount}, nil
}

// NewVaultTransitWithClient wraps an already configured Vault client.
func NewVaultTransitWithClient(client *vault.Client, mount string) *VaultTransit {
	return &VaultTransit{client: client, mount: mount}
}

// CreateKey creates an ed25519 transit key if absent and returns its
// public key. Transit's create endpoint is a no-op for existing keys,
// which gives this method its idempotency.
func (v *VaultTransit) CreateKey(ctx context.Context, name string) (ed25519.PublicKey, error) {
	_, err := v.client.Logical().WriteWithContext(ctx, v.mount+"/keys/"+name, map[string]interface{}{
		"type": "ed25519",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create key %q: %w", ErrBackendUnavailable, name, err)
	}
	return v.ReadKey(ctx, name)
}

// ListKeys lists the key names under the transit mount. A mount with no
// keys yet yields an empty list, not an error.
func (v *VaultTransit) ListKeys(ctx context.Context) ([]string, error) {
	secret, err := v.client.Logical().ListWithContext(ctx, v.mount+"/keys")
	if err != nil {
		return nil, fmt.Errorf("%w: list keys: %w", ErrBackendUnavailable, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, nil
	}
	raw, ok := secret.Data["keys"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: list response has no keys field", ErrBackendUnavailable)
	}
	names := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			names = append(names, s)
		}
	}
	return names, nil
}

// ReadKey reads the latest version of the named key's public half.
func (v *VaultTransit) ReadKey(ctx context.Context, name string) (ed25519.PublicKey, error) {
	secret, err := v.client.Logical().ReadWithContext(ctx, v.mount+"/keys/"+name)
	if err != nil {
		return nil, fmt.Errorf("%w: read key %q: %w", ErrBackendUnavailable, name, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, name)
	}

	versions, ok := secret.Data["keys"].(map[string]interface{})
	if !ok || len(versions) == 0 {
		return nil, fmt.Errorf("%w: key %q has no versions", ErrBackendUnavailable, name)
	}

	entry, ok := versions[latestVersion(secret.Data, versions)].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: key %q latest version missing", ErrBackendUnavailable, name)
	}
	pubB64, ok := entry["public_key"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: key %q has no public_key", ErrBackendUnavailable, name)
	}

	pub, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidPublicKey, len(pub))
	}
	return ed25519.PublicKey(pub), nil
}

// Sign signs message with the named key and returns the transit
// signature envelope verbatim.
func (v *VaultTransit) Sign(ctx context.Context, name string, message []byte) (string, error) {
	secret, err := v.client.Logical().WriteWithContext(ctx, v.mount+"/sign/"+name, map[string]interface{}{
		"input": base64.StdEncoding.EncodeToString(message),
	})
	if err != nil {
		return "", fmt.Errorf("%w: key %q: %w", ErrSigningFailed, name, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("%w: empty signing response", ErrSigningFailed)
	}
	envelope, ok := secret.Data["signature"].(string)
	if !ok {
		return "", fmt.Errorf("%w: response has no signature field", ErrSigningFailed)
	}
	return envelope, nil
}

// latestVersion picks the version key reported by latest_version, falling
// back to the highest numeric version present.
func latestVersion(data map[string]interface{}, versions map[string]interface{}) string {
	if n, ok := data["latest_version"].(json.Number); ok {
		return n.String()
	}
	best := 0
	for k := range versions {
		if v, err := strconv.Atoi(k); err == nil && v > best {
			best = v
		}
	}
	return strconv.Itoa(best)
}
