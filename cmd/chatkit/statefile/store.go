// Package statefile persists client UI state as a small JSON file, the
// terminal stand-in for browser localStorage.
package statefile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Store is a file-backed key-value store satisfying chatkit.Store.
type Store struct {
	path string

	mu   sync.Mutex
	data map[string]string
}

// Open loads the state file at path. A missing or unreadable file yields
// an empty store; the file appears on the first Set.
func Open(path string) *Store {
	s := &Store{path: path, data: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(raw, &s.data); err != nil || s.data == nil {
		s.data = make(map[string]string)
	}
	return s
}

// DefaultPath places the state file under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "chatkit", "state.json")
}

// Get returns the stored value, or "" when key is absent.
func (s *Store) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}

// Set stores value under key and writes the file through.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}
