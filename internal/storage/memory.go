package storage

import (
	"sync"

	"github.com/eugenenazirov/layered-configs/internal/properties"
)

// MemoryStore keeps properties in-memory and guards access with a RWMutex.
type MemoryStore struct {
	mu     sync.RWMutex
	values properties.Values
}

// NewMemoryStore initialises a store with a copy of seed.
func NewMemoryStore(seed properties.Values) *MemoryStore {
	return &MemoryStore{
		values: cloneScalars(seed),
	}
}

// Get returns the stored value for key, or nil when unset.
func (s *MemoryStore) Get(key string) (properties.Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.values[key], nil
}

// All returns a copy of every stored property.
func (s *MemoryStore) All() (properties.Values, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneScalars(s.values), nil
}

// Set stores value under key. A nil value removes the key.
func (s *MemoryStore) Set(key string, value properties.Value) error {
	if value != nil && !properties.IsScalar(value) {
		return ErrInvalidValue
	}

	s.mu.Lock()
	if value == nil {
		delete(s.values, key)
	} else {
		s.values[key] = value
	}
	s.mu.Unlock()

	return nil
}

func cloneScalars(src properties.Values) properties.Values {
	out := make(properties.Values, len(src))
	for key, value := range src {
		if properties.IsScalar(value) {
			out[key] = value
		}
	}
	return out
}
