package store

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/konorlevich/secureshare/internal/apperr"
)

func getLogger() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.FatalLevel)
	return logger.WithField("in_test", true)
}

type record struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type failingStore struct {
	getErr, setErr, removeErr error
}

func (f failingStore) Get(string) ([]byte, bool, error) { return nil, false, f.getErr }
func (f failingStore) Set(string, []byte) error         { return f.setErr }
func (f failingStore) Remove(string) error              { return f.removeErr }

func TestPasswordKey(t *testing.T) {
	assert.Equal(t, "password_42", PasswordKey("42"))
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		absent bool
		wantOk bool
		want   []record
	}{
		{name: "absent", absent: true},
		{name: "valid", stored: `[{"name":"a.txt","size":3}]`, wantOk: true, want: []record{{Name: "a.txt", Size: 3}}},
		{name: "corrupt", stored: `[{"name":`},
		{name: "wrong shape", stored: `{"name":"a"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemory()
			if !tt.absent {
				require.NoError(t, s.Set(KeyFiles, []byte(tt.stored)))
			}
			var got []record
			ok := Load(s, KeyFiles, &got, getLogger())
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("Load()\n%s", diff)
				}
			}
		})
	}
}

func TestLoad_BackendError(t *testing.T) {
	var got record
	assert.False(t, Load(failingStore{getErr: errors.New("disk")}, KeyUser, &got, getLogger()))
}

func TestSave(t *testing.T) {
	s := NewMemory()
	require.NoError(t, Save(s, KeyUser, record{Name: "n", Size: 1}, getLogger()))

	b, ok, err := s.Get(KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"n","size":1}`, string(b))

	require.NoError(t, Save(s, KeyUser, record{Name: "m"}, getLogger()))
	var got record
	require.True(t, Load(s, KeyUser, &got, getLogger()))
	assert.Equal(t, record{Name: "m"}, got)
}

func TestSave_Errors(t *testing.T) {
	err := Save(NewMemory(), KeyUser, make(chan int), getLogger())
	assert.ErrorIs(t, err, apperr.ErrStorage)

	err = Save(failingStore{setErr: errors.New("disk")}, KeyUser, record{}, getLogger())
	assert.ErrorIs(t, err, apperr.ErrStorage)
}

func TestRemove(t *testing.T) {
	s := NewMemory()
	require.NoError(t, s.Set(KeySession, []byte(`{}`)))
	require.NoError(t, Remove(s, KeySession, getLogger()))
	require.NoError(t, Remove(s, KeySession, getLogger()))
	_, ok, err := s.Get(KeySession)
	require.NoError(t, err)
	assert.False(t, ok)
	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	err = Remove(failingStore{removeErr: errors.New("disk")}, KeySession, getLogger())
	assert.ErrorIs(t, err, apperr.ErrStorage)
}

func TestMemory_CopiesValues(t *testing.T) {
	s := NewMemory()
	v := []byte("abc")
	require.NoError(t, s.Set("k", v))
	v[0] = 'x'
	got, _, _ := s.Get("k")
	assert.Equal(t, "abc", string(got))
}

type failingLister struct {
	*Memory
	keysErr error
}

func (f failingLister) Keys() ([]string, error) { return nil, f.keysErr }

func TestPurge(t *testing.T) {
	s := NewMemory()
	for _, k := range []string{KeyUser, KeyFiles, PasswordKey("old"), PasswordKey("new")} {
		require.NoError(t, s.Set(k, []byte(`{}`)))
	}

	n, err := Purge(s, getLogger())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	n, err = Purge(s, getLogger())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPurge_ListError(t *testing.T) {
	_, err := Purge(failingLister{Memory: NewMemory(), keysErr: errors.New("disk")}, getLogger())
	assert.ErrorIs(t, err, apperr.ErrStorage)
}

func TestMemory_KeysSorted(t *testing.T) {
	s := NewMemory()
	for _, k := range []string{KeyUser, KeyFiles, KeySession} {
		require.NoError(t, s.Set(k, nil))
	}
	keys, err := s.Keys()
	require.NoError(t, err)
	if diff := cmp.Diff([]string{KeyFiles, KeySession, KeyUser}, keys); diff != "" {
		t.Errorf("Keys()\n%s", diff)
	}
}
