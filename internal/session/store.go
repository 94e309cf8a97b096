package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/UnknownOlympus/hera/internal/models"
)

const (
	identityFile = "identity.json"
	tokenFile    = "token"
)

// ErrNoIdentity is returned by LoadIdentity when no identity has been persisted.
var ErrNoIdentity = errors.New("no persisted identity")

// Store persists the session between process restarts. It owns exactly
// two named slots: the JSON-encoded identity and an opaque bearer token.
type Store interface {
	LoadIdentity() (models.Identity, error)
	SaveIdentity(identity models.Identity) error
	SaveToken(token string) error
	Clear() error
}

// FileStore keeps the two session slots as files in a single directory.
// Writes go through a temp file and a rename, so a crash mid-write never
// leaves a partially written record behind.
type FileStore struct {
	dir string
}

// NewFileStore creates the storage directory if needed and returns a FileStore.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory %s: %w", dir, err)
	}

	return &FileStore{dir: dir}, nil
}

// LoadIdentity reads the persisted identity slot. It returns ErrNoIdentity
// when the slot is empty and a parse error when the record is corrupt;
// the caller decides whether to self-heal.
func (f *FileStore) LoadIdentity() (models.Identity, error) {
	raw, err := os.ReadFile(filepath.Join(f.dir, identityFile))
	if err != nil {
		if os.IsNotExist(err) {
			return models.Identity{}, ErrNoIdentity
		}
		return models.Identity{}, fmt.Errorf("failed to read persisted identity: %w", err)
	}

	var identity models.Identity
	if err = json.Unmarshal(raw, &identity); err != nil {
		return models.Identity{}, fmt.Errorf("failed to parse persisted identity: %w", err)
	}

	return identity, nil
}

// SaveIdentity writes the identity slot atomically.
func (f *FileStore) SaveIdentity(identity models.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}

	return f.writeSlot(identityFile, raw)
}

// SaveToken writes the bearer token slot atomically.
func (f *FileStore) SaveToken(token string) error {
	return f.writeSlot(tokenFile, []byte(token))
}

// Clear removes both slots. Missing slots are not an error, so Clear is
// safe to call even when no token was ever stored.
func (f *FileStore) Clear() error {
	for _, name := range []string{identityFile, tokenFile} {
		if err := os.Remove(filepath.Join(f.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}

	return nil
}

func (f *FileStore) writeSlot(name string, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}

	if err = os.Rename(tmp.Name(), filepath.Join(f.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}

	return nil
}
