// Package state persists per-book reading state across sessions.
package state

import (
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/zeebo/xxh3"
)

const (
	stateFileName = "books.json"
	hashBytes     = 8192 // First 8KB for content hash
)

// ReadingState stores the detection rule and position for a single book.
type ReadingState struct {
	Offset  int    `json:"offset"`
	Chapter int    `json:"chapter"`
	Rule    string `json:"rule,omitempty"`
	Pattern string `json:"pattern,omitempty"`
}

// StateStore manages persistent reading state
type StateStore struct {
	path string
	data map[string]ReadingState
	mu   sync.RWMutex
}

// NewStateStore creates or loads state from XDG_STATE_HOME/txtoc/
func NewStateStore() (*StateStore, error) {
	dir := getStateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &StateStore{
		path: filepath.Join(dir, stateFileName),
		data: make(map[string]ReadingState),
	}
	if err := store.load(); err != nil {
		// Non-fatal - start with empty state
		store.data = make(map[string]ReadingState)
	}
	return store, nil
}

// getStateDir returns XDG_STATE_HOME/txtoc or ~/.local/state/txtoc
func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "txtoc")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "txtoc")
}

// ComputeHash generates content hash for file identity
func ComputeHash(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, hashBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	sum := xxh3.Hash128(buf[:n]).Bytes()
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the saved state for a book.
func (s *StateStore) Get(hash string) (ReadingState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.data[hash]
	return st, ok
}

// Set saves the state for a book.
func (s *StateStore) Set(hash string, st ReadingState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[hash] = st
	return s.save()
}

// Clear removes saved state for a book.
func (s *StateStore) Clear(hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, hash)
	return s.save()
}

func (s *StateStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *StateStore) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
