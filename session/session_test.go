package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "sessions.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// --- Put / Get tests ---

func TestStore_PutGet(t *testing.T) {
	store := newTestStore(t, time.Hour)

	sess := &Session{
		UserID:       "12345",
		Address:      "SENDERADDRESS",
		EncryptedKey: []byte{0xde, 0xad, 0xbe, 0xef},
	}
	require.NoError(t, store.Put(sess))

	got, err := store.Get("12345")
	require.NoError(t, err)
	assert.Equal(t, "SENDERADDRESS", got.Address)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, got.EncryptedKey)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.LastActivity.IsZero())
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t, time.Hour)

	_, err := store.Get("nobody")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_PutReplaces(t *testing.T) {
	store := newTestStore(t, time.Hour)

	require.NoError(t, store.Put(&Session{UserID: "u", Address: "OLD"}))
	require.NoError(t, store.Put(&Session{UserID: "u", Address: "NEW"}))

	got, err := store.Get("u")
	require.NoError(t, err)
	assert.Equal(t, "NEW", got.Address)
}

func TestStore_PutValidation(t *testing.T) {
	store := newTestStore(t, time.Hour)

	assert.ErrorIs(t, store.Put(nil), ErrNilSession)
	assert.ErrorIs(t, store.Put(&Session{}), ErrEmptyUserID)
	_, err := store.Get("")
	assert.ErrorIs(t, err, ErrEmptyUserID)
}

// --- expiry tests ---

func TestStore_ExpiredSessionIsDeletedOnGet(t *testing.T) {
	store := newTestStore(t, time.Hour)

	now := time.Now()
	store.now = func() time.Time { return now }
	require.NoError(t, store.Put(&Session{UserID: "u", Address: "A"}))

	// Idle past the TTL.
	store.now = func() time.Time { return now.Add(2 * time.Hour) }

	_, err := store.Get("u")
	assert.ErrorIs(t, err, ErrSessionExpired)

	// The expired entry is gone, so the next lookup is a plain miss.
	_, err = store.Get("u")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_TouchExtendsSession(t *testing.T) {
	store := newTestStore(t, time.Hour)

	now := time.Now()
	store.now = func() time.Time { return now }
	require.NoError(t, store.Put(&Session{UserID: "u", Address: "A"}))

	// Touch every 45 minutes; the session stays live well past the
	// original window.
	for i := 1; i <= 3; i++ {
		store.now = func() time.Time { return now.Add(time.Duration(i) * 45 * time.Minute) }
		require.NoError(t, store.Touch("u"))
	}

	_, err := store.Get("u")
	assert.NoError(t, err)
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	store := newTestStore(t, 0)

	now := time.Now()
	store.now = func() time.Time { return now }
	require.NoError(t, store.Put(&Session{UserID: "u", Address: "A"}))

	store.now = func() time.Time { return now.Add(1000 * time.Hour) }
	_, err := store.Get("u")
	assert.NoError(t, err)
}

// --- Delete / PurgeExpired tests ---

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t, time.Hour)

	require.NoError(t, store.Put(&Session{UserID: "u", Address: "A"}))
	require.NoError(t, store.Delete("u"))

	_, err := store.Get("u")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, store.Delete("u"))
}

func TestStore_PurgeExpired(t *testing.T) {
	store := newTestStore(t, time.Hour)

	now := time.Now()
	store.now = func() time.Time { return now }
	require.NoError(t, store.Put(&Session{UserID: "old1", Address: "A"}))
	require.NoError(t, store.Put(&Session{UserID: "old2", Address: "B"}))

	store.now = func() time.Time { return now.Add(90 * time.Minute) }
	require.NoError(t, store.Put(&Session{UserID: "fresh", Address: "C"}))

	purged, err := store.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, 2, purged)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = store.Get("fresh")
	assert.NoError(t, err)
}

// --- persistence tests ---

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	store, err := OpenStore(path, time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Put(&Session{UserID: "u", Address: "A", EncryptedKey: []byte{1, 2, 3}}))
	require.NoError(t, store.Close())

	reopened, err := OpenStore(path, time.Hour)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get("u")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Address)
	assert.Equal(t, []byte{1, 2, 3}, got.EncryptedKey)
}
