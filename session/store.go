// Package session persists authenticated user sessions in a local bbolt
// database. A session binds a messaging user id to a ledger address and
// the password-encrypted private key blob; sessions expire after a
// configurable idle TTL.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var bucketSessions = []byte("sessions")

// Session is one authenticated user's resident state.
type Session struct {
	// UserID identifies the user on the messaging surface.
	UserID string `json:"user_id"`
	// Address is the user's ledger address.
	Address string `json:"address"`
	// EncryptedKey is the wallet.EncryptKey output for the user's
	// private key. The plaintext key never touches the store.
	EncryptedKey []byte `json:"encrypted_key"`

	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// Store wraps a bbolt database holding sessions.
type Store struct {
	db  *bbolt.DB
	ttl time.Duration

	// now is swapped in tests to control expiry.
	now func() time.Time
}

// OpenStore opens or creates the bbolt database at dbPath. Sessions idle
// longer than ttl are treated as expired; a non-positive ttl disables
// expiry. The parent directory is created if it does not exist.
func OpenStore(dbPath string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("session: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("session: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSessions)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session: create bucket: %w", err)
	}

	return &Store{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Put stores or replaces the session for its user id. CreatedAt and
// LastActivity are stamped when unset.
func (s *Store) Put(sess *Session) error {
	if sess == nil {
		return ErrNilSession
	}
	if sess.UserID == "" {
		return ErrEmptyUserID
	}

	now := s.now()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	if sess.LastActivity.IsZero() {
		sess.LastActivity = now
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketSessions).Put([]byte(sess.UserID), data); err != nil {
			return fmt.Errorf("session: put: %w", err)
		}
		return nil
	})
}

// Get retrieves the session for userID. An expired session is deleted
// during the lookup and reported as ErrSessionExpired, so a caller never
// observes stale credentials.
func (s *Store) Get(userID string) (*Session, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	var sess Session
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		data := b.Get([]byte(userID))
		if data == nil {
			return ErrSessionNotFound
		}
		if err := json.Unmarshal(data, &sess); err != nil {
			return fmt.Errorf("session: decode: %w", err)
		}
		if s.expired(&sess) {
			if err := b.Delete([]byte(userID)); err != nil {
				return fmt.Errorf("session: delete expired: %w", err)
			}
			return fmt.Errorf("%w: user %s", ErrSessionExpired, userID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Touch advances the session's LastActivity to now, extending its idle
// window. Returns ErrSessionNotFound if no live session exists.
func (s *Store) Touch(userID string) error {
	sess, err := s.Get(userID)
	if err != nil {
		return err
	}
	sess.LastActivity = s.now()
	return s.Put(sess)
}

// Delete removes the session for userID. Deleting a missing session is
// not an error.
func (s *Store) Delete(userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketSessions).Delete([]byte(userID)); err != nil {
			return fmt.Errorf("session: delete: %w", err)
		}
		return nil
	})
}

// PurgeExpired removes every expired session and reports how many were
// deleted.
func (s *Store) PurgeExpired() (int, error) {
	var purged int
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSessions)

		var toDelete [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var sess Session
			if err := json.Unmarshal(v, &sess); err != nil {
				return fmt.Errorf("session: decode in purge: %w", err)
			}
			if s.expired(&sess) {
				keyCopy := make([]byte, len(k))
				copy(keyCopy, k)
				toDelete = append(toDelete, keyCopy)
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range toDelete {
			if err := b.Delete(k); err != nil {
				return fmt.Errorf("session: delete in purge: %w", err)
			}
		}
		purged = len(toDelete)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return purged, nil
}

// Count returns the number of stored sessions, expired ones included.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket(bucketSessions).Stats().KeyN
		return nil
	})
	return count, err
}

func (s *Store) expired(sess *Session) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(sess.LastActivity) > s.ttl
}
