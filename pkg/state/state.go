package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// State represents what policyscan remembers between runs.
type State struct {
	LastFile    string    `yaml:"last_file,omitempty"`
	LastDir     string    `yaml:"last_dir,omitempty"`
	LastOutcome string    `yaml:"last_outcome,omitempty"`
	LastRun     time.Time `yaml:"last_run,omitempty"`
}

// Store reads and writes the state file at Path. It is safe for
// concurrent use; updates are serialised and written atomically.
type Store struct {
	Path string

	mu sync.Mutex
}

// DefaultPath returns the state file location under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config directory: %w", err)
	}
	return filepath.Join(dir, "policyscan", "state.yml"), nil
}

// NewDefaultStore returns a Store at DefaultPath.
func NewDefaultStore() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return &Store{Path: path}, nil
}

// Dir returns the directory holding the state file.
func (s *Store) Dir() string {
	return filepath.Dir(s.Path)
}

// Load loads the state from the state file.
func (s *Store) Load() (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save saves the state to the state file.
func (s *Store) Save(state *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(state)
}

// RecordSelection remembers the selected file and its directory.
func (s *Store) RecordSelection(path string) error {
	return s.update(func(state *State) {
		state.LastFile = path
		state.LastDir = filepath.Dir(path)
	})
}

// RecordOutcome remembers how the last run ended.
func (s *Store) RecordOutcome(kind string, at time.Time) error {
	return s.update(func(state *State) {
		state.LastOutcome = kind
		state.LastRun = at.UTC()
	})
}

func (s *Store) update(fn func(*State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	fn(state)
	return s.save(state)
}

func (s *Store) load() (*State, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty state if file doesn't exist
			return &State{}, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}

	return &state, nil
}

// save writes to a temporary file next to Path and renames it into place so
// readers never see a partially written file.
func (s *Store) save(state *State) error {
	if err := os.MkdirAll(s.Dir(), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir(), ".state-*.yml")
	if err != nil {
		return fmt.Errorf("create temporary state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}

// LastDir returns the directory of the last selection, or "" when unknown
// or no longer present.
func (s *Store) LastDir() string {
	state, err := s.Load()
	if err != nil || state.LastDir == "" {
		return ""
	}
	if info, err := os.Stat(state.LastDir); err != nil || !info.IsDir() {
		return ""
	}
	return state.LastDir
}
