package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jewelcca/storefront/internal/domain"
)

func TestStore_StartsAnonymous(t *testing.T) {
	s := New()

	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
}

func TestStore_SetCredentials(t *testing.T) {
	s := New()
	u := &domain.User{ID: "u-1", Email: "ada@example.com"}

	s.SetCredentials("tok-abc", u)

	assert.True(t, s.Authenticated())
	assert.Equal(t, "tok-abc", s.Token())
	assert.Equal(t, u, s.User())
}

func TestStore_Clear(t *testing.T) {
	s := New()
	s.SetCredentials("tok-abc", &domain.User{ID: "u-1"})

	s.Clear()

	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
}

func TestStore_SubscribersNotifiedOnChange(t *testing.T) {
	s := New()
	calls := 0
	s.Subscribe(func() { calls++ })

	s.SetCredentials("tok-abc", &domain.User{ID: "u-1"})
	assert.Equal(t, 1, calls)

	s.Clear()
	assert.Equal(t, 2, calls)
}

func TestStore_ClearWhenAnonymousIsNoOp(t *testing.T) {
	s := New()
	calls := 0
	s.Subscribe(func() { calls++ })

	s.Clear()

	assert.Zero(t, calls)
}

func TestNewPersistent_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := NewPersistent(path)
	s.SetCredentials("tok-abc", &domain.User{ID: "u-1", Email: "ada@example.com"})

	reloaded := NewPersistent(path)
	require.True(t, reloaded.Authenticated())
	assert.Equal(t, "tok-abc", reloaded.Token())
	assert.Equal(t, "ada@example.com", reloaded.User().Email)
}

func TestNewPersistent_MissingFile(t *testing.T) {
	s := NewPersistent(filepath.Join(t.TempDir(), "nope.json"))
	assert.False(t, s.Authenticated())
}

func TestNewPersistent_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewPersistent(path)
	assert.False(t, s.Authenticated())
}

func TestStore_ClearRemovesPersistedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := NewPersistent(path)
	s.SetCredentials("tok-abc", &domain.User{ID: "u-1"})
	require.FileExists(t, path)

	s.Clear()
	assert.NoFileExists(t, path)
}
