package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/layered-configs/internal/properties"
)

// FileStore persists properties as a flat YAML document. A missing file is
// an empty store; entries that are not scalars are ignored on read and left
// untouched on write.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by the YAML file at path. The file is
// created on the first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the stored value for key, or nil when unset.
func (s *FileStore) Get(key string) (properties.Value, error) {
	values, err := s.All()
	if err != nil {
		return nil, err
	}
	return values[key], nil
}

// All reads the file and returns its scalar entries.
func (s *FileStore) All() (properties.Values, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.read()
	if err != nil {
		return nil, err
	}
	return cloneScalars(raw), nil
}

// Set rewrites the file with key set to value. A nil value removes the key.
func (s *FileStore) Set(key string, value properties.Value) error {
	if value != nil && !properties.IsScalar(value) {
		return ErrInvalidValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.read()
	if err != nil {
		return err
	}
	if value == nil {
		delete(raw, key)
	} else {
		raw[key] = value
	}
	return s.write(raw)
}

func (s *FileStore) read() (properties.Values, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return properties.Values{}, nil
		}
		return nil, fmt.Errorf("read property file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse property file %s: %w", s.path, err)
	}
	if raw == nil {
		return properties.Values{}, nil
	}
	return properties.Values(raw), nil
}

func (s *FileStore) write(values properties.Values) error {
	data, err := yaml.Marshal(map[string]any(values))
	if err != nil {
		return fmt.Errorf("encode property file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create property directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp property file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write property file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod property file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close property file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace property file: %w", err)
	}
	return nil
}
