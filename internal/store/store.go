// Package store is the persistence port shared by the account and file
// services: JSON records under a handful of fixed keys.
package store

import (
	"encoding/json"
	"errors"
	"slices"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/konorlevich/secureshare/internal/apperr"
)

const (
	KeyUser    = "user"
	KeyFiles   = "files"
	KeySession = "session"

	passwordKeyPrefix = "password_"
)

var (
	ErrCantEncode = errors.New("can't encode record")
	ErrCantSave   = errors.New("can't save record")
	ErrCantRemove = errors.New("can't remove record")
)

// Store is a durable key-value store. Set replaces the whole value.
// Removing a missing key is not an error.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// Lister is a Store that can enumerate its keys.
type Lister interface {
	Store
	Keys() ([]string, error)
}

// PasswordKey is the key of the credential entry of the user.
func PasswordKey(userID string) string {
	return passwordKeyPrefix + userID
}

// Load decodes the JSON record under key into v.
// It reports false when the record is absent, unreadable or corrupt;
// the last two are logged and never returned.
func Load(s Store, key string, v any, l *log.Entry) bool {
	l = l.WithField("key", key)
	b, ok, err := s.Get(key)
	if err != nil {
		l.WithError(err).Error("can't read record")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		l.WithError(err).Warn("corrupt record, treating as absent")
		return false
	}
	return true
}

// Save encodes v as JSON and writes it under key.
func Save(s Store, key string, v any, l *log.Entry) error {
	l = l.WithField("key", key)
	b, err := json.Marshal(v)
	if err != nil {
		l.WithError(err).Error(ErrCantEncode)
		return apperr.New(apperr.ErrStorage, ErrCantEncode.Error())
	}
	if err := s.Set(key, b); err != nil {
		l.WithError(err).Error(ErrCantSave)
		return apperr.New(apperr.ErrStorage, ErrCantSave.Error())
	}
	return nil
}

// Remove deletes the record under key.
func Remove(s Store, key string, l *log.Entry) error {
	if err := s.Remove(key); err != nil {
		l.WithField("key", key).WithError(err).Error(ErrCantRemove)
		return apperr.New(apperr.ErrStorage, ErrCantRemove.Error())
	}
	return nil
}

// Purge removes every record still stored and returns how many it removed.
func Purge(s Lister, l *log.Entry) (int, error) {
	keys, err := s.Keys()
	if err != nil {
		l.WithError(err).Error("can't list records")
		return 0, apperr.New(apperr.ErrStorage, ErrCantRemove.Error())
	}
	for i, k := range keys {
		if err := Remove(s, k, l); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}

// Memory keeps records in a map. The zero value is not usable, use NewMemory.
type Memory struct {
	mu      sync.Mutex
	records map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.records[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

// Keys lists the stored keys ordered by name.
func (m *Memory) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}
