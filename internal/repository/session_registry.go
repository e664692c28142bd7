package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dfma-ops/checkin-api/internal/models"
)

// SessionRegistry persists the session list as a single JSON file that is
// read fully on every call and rewritten fully on every mutation. A mutex
// keeps read-modify-write cycles atomic within the process; the rewrite
// itself goes through a temp file and rename so a crash never leaves a
// half-written registry.
type SessionRegistry struct {
	path string
	mu   sync.Mutex
}

// NewSessionRegistry returns a registry backed by the given file path.
func NewSessionRegistry(path string) *SessionRegistry {
	return &SessionRegistry{path: path}
}

// Load returns the full session list. A missing file is an empty registry.
func (r *SessionRegistry) Load() ([]models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Append adds a session and persists immediately.
func (r *SessionRegistry) Append(session models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.load()
	if err != nil {
		return err
	}
	return r.store(append(sessions, session))
}

// Mutate applies fn to the current list and persists the result. fn returns
// the new list and whether anything changed.
func (r *SessionRegistry) Mutate(fn func([]models.Session) ([]models.Session, bool)) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.load()
	if err != nil {
		return false, err
	}
	next, changed := fn(sessions)
	if !changed {
		return false, nil
	}
	if err := r.store(next); err != nil {
		return false, err
	}
	return true, nil
}

func (r *SessionRegistry) load() ([]models.Session, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session registry: %w", err)
	}
	var sessions []models.Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		return nil, fmt.Errorf("decode session registry: %w", err)
	}
	return sessions, nil
}

func (r *SessionRegistry) store(sessions []models.Session) error {
	if sessions == nil {
		sessions = []models.Session{}
	}
	payload, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encode session registry: %w", err)
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prepare registry directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "sessions-*.json")
	if err != nil {
		return fmt.Errorf("create registry temp file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("write session registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("close registry temp file: %w", err)
	}
	if err := os.Rename(name, r.path); err != nil {
		os.Remove(name)
		return fmt.Errorf("replace session registry: %w", err)
	}
	return nil
}
