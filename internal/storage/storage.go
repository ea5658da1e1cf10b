package storage

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/eugenenazirov/layered-configs/internal/properties"
)

// Backend names accepted by Open.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

var (
	// ErrUnknownBackend indicates Open was asked for a backend it does not know.
	ErrUnknownBackend = errors.New("unknown store backend")
	// ErrMissingPath indicates the file backend was selected without a path.
	ErrMissingPath = errors.New("file store requires a path")
	// ErrInvalidValue indicates a write with a value that is not a flat scalar.
	ErrInvalidValue = errors.New("property values must be flat scalars")
)

// Options selects and configures a store backend.
type Options struct {
	Backend string
	Path    string
	Redis   RedisOptions
}

// Backends lists the backend names Open understands.
func Backends() []string {
	return []string{BackendNone, BackendMemory, BackendFile, BackendRedis}
}

// ValidBackend reports whether name is one of Backends.
func ValidBackend(name string) bool {
	switch normalizeBackend(name) {
	case BackendNone, BackendMemory, BackendFile, BackendRedis:
		return true
	default:
		return false
	}
}

// Ephemeral reports whether name selects a store whose contents live only as
// long as the process that opened it.
func Ephemeral(name string) bool {
	return normalizeBackend(name) == BackendMemory
}

// Open constructs the store described by opts. The returned closer releases
// any connection the store holds and is never nil. A nil store with a nil
// error means the "none" backend was selected.
func Open(opts Options) (properties.Store, io.Closer, error) {
	switch normalizeBackend(opts.Backend) {
	case BackendNone:
		return nil, nopCloser{}, nil
	case BackendMemory:
		return NewMemoryStore(nil), nopCloser{}, nil
	case BackendFile:
		if strings.TrimSpace(opts.Path) == "" {
			return nil, nil, ErrMissingPath
		}
		return NewFileStore(opts.Path), nopCloser{}, nil
	case BackendRedis:
		client, err := NewRedisClient(opts.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client, opts.Redis.Key, opts.Redis.Timeout), client, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

func normalizeBackend(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return BackendNone
	}
	return name
}

const defaultOpTimeout = 3 * time.Second

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
