package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore is the durable home of the bearer token. Token is read on
// every outgoing request; Set("") discards the credential.
type TokenStore interface {
	Token() string
	Set(token string) error
}

// FileTokenStore keeps the token in a 0600 file so a session survives
// process restarts until explicit logout or server-side rejection.
type FileTokenStore struct {
	mu    sync.RWMutex
	path  string
	token string
}

// NewFileTokenStore opens (or prepares) the token file at path and
// loads any previously persisted token.
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	s := &FileTokenStore{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	s.token = strings.TrimSpace(string(raw))
	return s, nil
}

// Token returns the current token, or "" when logged out.
func (s *FileTokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Set persists a new token. An empty token removes the file.
func (s *FileTokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if token == "" {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

// MemTokenStore is an in-memory TokenStore for tests and throwaway
// sessions.
type MemTokenStore struct {
	mu    sync.RWMutex
	token string
}

func (s *MemTokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemTokenStore) Set(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}
