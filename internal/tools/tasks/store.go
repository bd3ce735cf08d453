package tasks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Task struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Done     bool      `json:"done"`
	Priority int       `json:"priority,omitempty"` // 1..3, 0 = unset
	Due      string    `json:"due,omitempty"`      // "today", "tomorrow" or YYYY-MM-DD
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
}

// Store persists the task list as a single JSON file under the data dir.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("tasks: data dir is required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("tasks: mkdir data dir: %w", err)
	}
	return &Store{path: filepath.Join(dataDir, "tasks.json")}, nil
}

// Load returns the stored tasks. A missing or unreadable file yields an
// empty list rather than an error; the next save rewrites it.
func (s *Store) Load() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() []Task {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil
	}
	return tasks
}

func (s *Store) Save(tasks []Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(tasks)
}

func (s *Store) saveLocked(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("tasks: marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("tasks: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("tasks: rename: %w", err)
	}
	return nil
}

// Update applies fn to the stored list and saves the result atomically with
// respect to other Update/Load/Save calls.
func (s *Store) Update(fn func([]Task) []Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(fn(s.loadLocked()))
}
