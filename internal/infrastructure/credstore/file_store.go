// Package credstore holds the durable and in-memory CredentialStore
// implementations used by role sessions.
package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prescripto/clinic-session/internal/core/domain"
)

type fileRecord struct {
	Credential string    `json:"credential"`
	SavedAt    time.Time `json:"saved_at"`
}

// FileStore keeps one role's credential in <dir>/<key>.json. Writes go
// through a temp file and a rename so a crash never leaves a torn file.
type FileStore struct {
	dir  string
	path string
	base string
	mu   sync.Mutex
}

// NewFileStore creates the directory if needed. key is the role-scoped
// storage key (see domain.Role.CredentialKey).
func NewFileStore(dir, key string) (*FileStore, error) {
	if dir == "" || key == "" {
		return nil, errors.New("credential store: dir and key are required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("credential store: create dir: %w", err)
	}
	base := key + ".json"
	return &FileStore{dir: dir, base: base, path: filepath.Join(dir, base)}, nil
}

// Get returns the empty credential when nothing is stored.
func (s *FileStore) Get(_ context.Context) (domain.Credential, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read credential: %w", err)
	}

	var rec fileRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return "", fmt.Errorf("decode credential: %w", err)
	}
	return domain.Credential(rec.Credential), nil
}

// Set persists cred. Setting the empty credential is the same as Clear.
func (s *FileStore) Set(ctx context.Context, cred domain.Credential) error {
	if !cred.Present() {
		return s.Clear(ctx)
	}

	payload, err := json.Marshal(fileRecord{Credential: string(cred), SavedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmpFile, err := os.CreateTemp(s.dir, s.base+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if err := tmpFile.Chmod(0o600); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmpFile.Write(payload); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), s.path); err != nil {
		return fmt.Errorf("replace credential file: %w", err)
	}
	return nil
}

// Clear removes the stored credential. Clearing an empty store is not an error.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credential: %w", err)
	}
	return nil
}
