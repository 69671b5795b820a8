// Package session holds the authenticated identity for the running client.
// The store is the single source of truth for the auth token; every other
// component observes it rather than caching credentials of its own.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jewelcca/storefront/internal/domain"
)

// Store keeps the current auth token and user summary. It is safe for
// concurrent use. Identity changes (login, logout) are broadcast to
// subscribers so dependent state can re-sync.
type Store struct {
	mu          sync.RWMutex
	token       string
	user        *domain.User
	subscribers []func()

	// path, when non-empty, is the JSON file credentials persist to.
	path string
}

// New creates an in-memory session store.
func New() *Store {
	return &Store{}
}

// persisted is the on-disk shape of a saved session.
type persisted struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// NewPersistent creates a session store backed by a JSON file at path. A
// missing or unreadable file yields an anonymous session; it is never an
// error, since the user can simply log in again.
func NewPersistent(path string) *Store {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	var p persisted
	if json.Unmarshal(data, &p) != nil || p.Token == "" || p.User == nil {
		// Corrupt or partial file: treat as anonymous.
		return s
	}

	s.token = p.Token
	s.user = p.User
	return s
}

// SetCredentials records a successful authentication and notifies subscribers.
func (s *Store) SetCredentials(token string, user *domain.User) {
	s.mu.Lock()
	s.token = token
	s.user = user
	subs := append([]func(){}, s.subscribers...)
	s.mu.Unlock()

	s.persist()
	for _, fn := range subs {
		fn()
	}
}

// Clear drops the current identity and notifies subscribers. Calling Clear on
// an already-anonymous store is a no-op and fires no notifications.
func (s *Store) Clear() {
	s.mu.Lock()
	if s.token == "" && s.user == nil {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.user = nil
	subs := append([]func(){}, s.subscribers...)
	s.mu.Unlock()

	s.persist()
	for _, fn := range subs {
		fn()
	}
}

// Token returns the current bearer token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user summary, or nil when anonymous.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a token is present.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Subscribe registers fn to be called after every identity change. Callbacks
// run synchronously on the goroutine performing the change and must not call
// back into the store's mutating methods.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// persist writes the current identity to disk when a path is configured.
// Persistence failures are non-fatal: the session stays valid in memory.
func (s *Store) persist() {
	if s.path == "" {
		return
	}

	s.mu.RLock()
	p := persisted{Token: s.token, User: s.user}
	s.mu.RUnlock()

	if p.Token == "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return
		}
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return
	}

	// Write via temp file so a crash mid-write cannot corrupt the session.
	tmp := fmt.Sprintf("%s.tmp", s.path)
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return
	}
	_ = os.Rename(tmp, s.path)
}
