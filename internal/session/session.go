// Package session holds the console's in-memory session state.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/studiowebux/adminctl/internal/adminapi"
)

// Session is created once at startup and lives until exit. It is never
// saved: the admin key only exists in this struct.
type Session struct {
	mu         sync.RWMutex
	credential string
	startedAt  time.Time
}

// New creates an empty session
func New() *Session {
	return &Session{startedAt: time.Now()}
}

// SetCredential replaces the admin key
func (s *Session) SetCredential(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = strings.TrimSpace(key)
}

// Credential returns the admin key, or adminapi.ErrMissingCredential when none is set
func (s *Session) Credential() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.credential == "" {
		return "", adminapi.ErrMissingCredential
	}
	return s.credential, nil
}

// HasCredential reports whether a non-blank admin key is set
func (s *Session) HasCredential() bool {
	_, err := s.Credential()
	return err == nil
}

// StartedAt returns when the session was created
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}
