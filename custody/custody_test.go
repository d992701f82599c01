package custody

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- KeyName tests ---

func TestKeyName(t *testing.T) {
	tests := []struct {
		name     string
		identity string
		want     string
	}{
		{"plain phone", "+15551234567", "algointent-ph-15551234567"},
		{"formatted phone", "+1 (555) 123-4567", "algointent-ph-15551234567"},
		{"oauth subject", "google-oauth2|108357", "algointent-id-google-oauth2_108357"},
		{"numeric subject", "108357", "algointent-id-108357"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KeyName("algointent", tc.identity))
		})
	}
}

func TestKeyName_PhoneAndSubjectNamespacesDisjoint(t *testing.T) {
	// A subject id equal to a phone number's digits must not map to the
	// same key.
	assert.NotEqual(t,
		KeyName("p", "+15551234567"),
		KeyName("p", "15551234567"))
}

// --- Service tests ---

func TestCreateOrGet_Idempotent(t *testing.T) {
	svc := NewService(NewMemoryBackend(), "algointent")
	ctx := context.Background()

	first, err := svc.CreateOrGet(ctx, "+15551234567")
	require.NoError(t, err)
	second, err := svc.CreateOrGet(ctx, "+15551234567")
	require.NoError(t, err)

	assert.Equal(t, first.KeyName, second.KeyName)
	assert.Equal(t, first.Address, second.Address)
	assert.Equal(t, first.PublicKey, second.PublicKey)
}

func TestCreateOrGet_AddressIsDerivedFromPublicKey(t *testing.T) {
	svc := NewService(NewMemoryBackend(), "algointent")

	rec, err := svc.CreateOrGet(context.Background(), "+15551234567")
	require.NoError(t, err)

	var addr types.Address
	copy(addr[:], rec.PublicKey)
	assert.Equal(t, addr.String(), rec.Address)
}

func TestCreateOrGet_EmptyIdentity(t *testing.T) {
	svc := NewService(NewMemoryBackend(), "algointent")

	_, err := svc.CreateOrGet(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyIdentity)
}

func TestCreateOrGet_ConcurrentSameIdentity(t *testing.T) {
	svc := NewService(NewMemoryBackend(), "algointent")
	ctx := context.Background()

	const goroutines = 16
	records := make([]*KeyRecord, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := svc.CreateOrGet(ctx, "+447700900123")
			require.NoError(t, err)
			records[i] = rec
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Equal(t, records[0].Address, records[i].Address)
	}
}

func TestGet_DoesNotProvision(t *testing.T) {
	backend := NewMemoryBackend()
	svc := NewService(backend, "algointent")

	_, err := svc.Get(context.Background(), "+15551234567")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Zero(t, backend.CreateCalls)
}

func TestGet_AfterCreate(t *testing.T) {
	svc := NewService(NewMemoryBackend(), "algointent")
	ctx := context.Background()

	created, err := svc.CreateOrGet(ctx, "+15551234567")
	require.NoError(t, err)

	got, err := svc.Get(ctx, "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, created.Address, got.Address)
}

func TestGet_ChecksExistenceBeforeRead(t *testing.T) {
	// A backend that auto-creates on read must still surface NotFound,
	// because Get asserts existence via ListKeys first.
	autoCreate := NewMemoryBackend()
	backend := &MockBackend{
		ListKeysFn: func(ctx context.Context) ([]string, error) { return nil, nil },
		ReadKeyFn:  autoCreate.CreateKey,
	}
	svc := NewService(backend, "algointent")

	_, err := svc.Get(context.Background(), "+15551234567")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Zero(t, autoCreate.CreateCalls)
}

// --- Sign round-trip tests ---

func TestSign_RoundTripVerifies(t *testing.T) {
	svc := NewService(NewMemoryBackend(), "algointent")
	ctx := context.Background()

	rec, err := svc.CreateOrGet(ctx, "+15551234567")
	require.NoError(t, err)

	message := []byte("TX\x81\xa3payload")
	envelope, err := svc.Sign(ctx, "+15551234567", message)
	require.NoError(t, err)

	sig, err := ParseSignatureEnvelope(envelope)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(rec.PublicKey, message, sig))
}

// --- ParseSignatureEnvelope tests ---

func TestParseSignatureEnvelope(t *testing.T) {
	sig := make([]byte, ed25519.SignatureSize)
	_, err := rand.Read(sig)
	require.NoError(t, err)
	good := "vault:v1:" + base64.StdEncoding.EncodeToString(sig)

	got, err := ParseSignatureEnvelope(good)
	require.NoError(t, err)
	assert.Equal(t, sig, got)
}

func TestParseSignatureEnvelope_Malformed(t *testing.T) {
	sigB64 := base64.StdEncoding.EncodeToString(make([]byte, ed25519.SignatureSize))

	tests := []struct {
		name     string
		envelope string
	}{
		{"missing segments", "vault:" + sigB64},
		{"wrong scheme", "aws:v1:" + sigB64},
		{"bad version", "vault:1:" + sigB64},
		{"not base64", "vault:v1:%%%"},
		{"short signature", "vault:v1:" + base64.StdEncoding.EncodeToString([]byte("short"))},
		{"empty", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSignatureEnvelope(tc.envelope)
			assert.ErrorIs(t, err, ErrInvalidEnvelope)
		})
	}
}
