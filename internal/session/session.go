// ABOUTME: Persisted session store holding the API token
// ABOUTME: Stores the token as JSON in the user config directory

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the session file created inside the config directory
const FileName = "session.json"

// Store is the session contract consumed by the request issuer and actions
type Store interface {
	Token() string
	HasSession() bool
	Set(token string) error
	Clear() error
}

// FileStore persists the session token in a file. The token survives restarts
// until Clear is called.
type FileStore struct {
	configDir string

	mu     sync.Mutex
	token  string
	loaded bool
}

type sessionData struct {
	Token string `json:"token"`
}

// New creates a FileStore rooted at configDir
func New(configDir string) *FileStore {
	return &FileStore{configDir: configDir}
}

// Path returns the session file location
func (s *FileStore) Path() string {
	return filepath.Join(s.configDir, FileName)
}

// Token returns the stored token, or "" when there is no session
func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return s.token
}

// HasSession reports whether a token is stored
func (s *FileStore) HasSession() bool {
	return s.Token() != ""
}

// Set persists token. An empty token clears the session.
func (s *FileStore) Set(token string) error {
	if token == "" {
		return s.Clear()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.Marshal(sessionData{Token: token})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	s.token = token
	s.loaded = true
	return nil
}

// Clear removes the persisted token. Clearing an absent session is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.loaded = true

	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// loadLocked reads the session file once. Missing or corrupt files read as no session.
func (s *FileStore) loadLocked() {
	if s.loaded {
		return
	}
	s.loaded = true

	data, err := os.ReadFile(s.Path())
	if err != nil {
		return
	}

	var sd sessionData
	if err := json.Unmarshal(data, &sd); err != nil {
		return
	}
	s.token = sd.Token
}

// MemoryStore is a non-persistent Store
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemory creates a MemoryStore seeded with token
func NewMemory(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *MemoryStore) HasSession() bool {
	return m.Token() != ""
}

func (m *MemoryStore) Set(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Clear() error {
	return m.Set("")
}
