package wallet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- account tests ---

func TestGenerate(t *testing.T) {
	account, err := Generate()
	require.NoError(t, err)

	assert.Len(t, strings.Fields(account.Mnemonic), 25)
	assert.Len(t, account.Address.String(), 58)
	assert.Len(t, []byte(account.PrivateKey), 64)
}

func TestGenerate_Unique(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)

	assert.NotEqual(t, a.Address, b.Address)
	assert.NotEqual(t, a.Mnemonic, b.Mnemonic)
}

func TestFromMnemonic_RoundTrip(t *testing.T) {
	original, err := Generate()
	require.NoError(t, err)

	recovered, err := FromMnemonic(original.Mnemonic)
	require.NoError(t, err)

	assert.Equal(t, original.Address, recovered.Address)
	assert.Equal(t, original.PrivateKey, recovered.PrivateKey)
}

func TestFromMnemonic_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"too short", "abandon abandon abandon"},
		{"garbage words", strings.Repeat("zzzz ", 24) + "zzzz"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromMnemonic(tc.phrase)
			assert.ErrorIs(t, err, ErrInvalidMnemonic)
		})
	}
}

func TestFromPrivateKey(t *testing.T) {
	original, err := Generate()
	require.NoError(t, err)

	recovered, err := FromPrivateKey(original.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, original.Address, recovered.Address)
	assert.Equal(t, original.Mnemonic, recovered.Mnemonic)
}

func TestFromPrivateKey_WrongLength(t *testing.T) {
	_, err := FromPrivateKey(make([]byte, 31))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

// --- encryption tests ---

func TestEncryptDecryptKey_RoundTrip(t *testing.T) {
	account, err := Generate()
	require.NoError(t, err)

	encrypted, err := EncryptKey(account.PrivateKey, "correct horse battery staple")
	require.NoError(t, err)
	assert.Greater(t, len(encrypted), SaltLen+NonceLen)

	decrypted, err := DecryptKey(encrypted, "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, []byte(account.PrivateKey), decrypted)
}

func TestDecryptKey_WrongPassword(t *testing.T) {
	account, err := Generate()
	require.NoError(t, err)

	encrypted, err := EncryptKey(account.PrivateKey, "right")
	require.NoError(t, err)

	_, err = DecryptKey(encrypted, "wrong")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptKey_Truncated(t *testing.T) {
	_, err := DecryptKey([]byte("short"), "pw")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptKey_Tampered(t *testing.T) {
	account, err := Generate()
	require.NoError(t, err)

	encrypted, err := EncryptKey(account.PrivateKey, "pw")
	require.NoError(t, err)

	// Flip one ciphertext bit. GCM authentication catches it.
	encrypted[len(encrypted)-1] ^= 0x01
	_, err = DecryptKey(encrypted, "pw")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestEncryptKey_EmptyKey(t *testing.T) {
	_, err := EncryptKey(nil, "pw")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestEncryptKey_SaltVaries(t *testing.T) {
	account, err := Generate()
	require.NoError(t, err)

	a, err := EncryptKey(account.PrivateKey, "pw")
	require.NoError(t, err)
	b, err := EncryptKey(account.PrivateKey, "pw")
	require.NoError(t, err)

	assert.NotEqual(t, a[:SaltLen], b[:SaltLen])
	assert.NotEqual(t, a, b)
}
