package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/certtrack/certtrack-api/internal/models"
)

// FileUserStateRepository is the file-backed fallback store for per-user
// state. Each user's favorites, applications and completions live in one
// JSON document under the configured directory. It exists for single-node
// deployments without Postgres and is selected via USER_STATE_DRIVER.
type FileUserStateRepository struct {
	dir string
	mu  sync.Mutex
}

// NewFileUserStateRepository creates the backing directory if needed.
func NewFileUserStateRepository(dir string) (*FileUserStateRepository, error) {
	if dir == "" {
		return nil, fmt.Errorf("user state directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create user state directory: %w", err)
	}
	return &FileUserStateRepository{dir: dir}, nil
}

// Load reads the user's state document. A missing file yields an empty
// state, not an error.
func (r *FileUserStateRepository) Load(userID string) (models.UserState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(userID)
}

// Save replaces the user's state document. The write goes through a temp
// file and rename so readers never observe a partial document.
func (r *FileUserStateRepository) Save(userID string, state models.UserState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(userID, state)
}

// Mutate applies fn to the user's state under the lock and persists the
// result when fn reports a change.
func (r *FileUserStateRepository) Mutate(userID string, fn func(*models.UserState) (bool, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.load(userID)
	if err != nil {
		return err
	}
	changed, err := fn(&state)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return r.save(userID, state)
}

func (r *FileUserStateRepository) load(userID string) (models.UserState, error) {
	state := models.UserState{
		Favorites:    []string{},
		Applications: []models.FundingApplication{},
		Completed:    []models.CompletedCertification{},
	}
	raw, err := os.ReadFile(r.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, fmt.Errorf("read user state: %w", err)
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return state, fmt.Errorf("decode user state: %w", err)
	}
	return state, nil
}

func (r *FileUserStateRepository) save(userID string, state models.UserState) error {
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user state: %w", err)
	}
	target := r.path(userID)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write user state: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("replace user state: %w", err)
	}
	return nil
}

func (r *FileUserStateRepository) path(userID string) string {
	// User ids are uuids, but sanitize anyway so a crafted id cannot
	// escape the state directory.
	safe := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			return c
		}
		return '_'
	}, userID)
	return filepath.Join(r.dir, safe+".json")
}
