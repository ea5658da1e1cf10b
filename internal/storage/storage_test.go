package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestOpenNoneYieldsNilStore(t *testing.T) {
	t.Parallel()

	for _, backend := range []string{"", "none", " NONE "} {
		store, closer, err := Open(Options{Backend: backend})
		if err != nil {
			t.Fatalf("Open(%q) returned error: %v", backend, err)
		}
		if store != nil {
			t.Fatalf("Open(%q) expected nil store, got %T", backend, store)
		}
		if closer == nil || closer.Close() != nil {
			t.Fatalf("Open(%q) expected usable no-op closer", backend)
		}
	}
}

func TestOpenMemoryAndFile(t *testing.T) {
	t.Parallel()

	store, _, err := Open(Options{Backend: "memory"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected *MemoryStore, got %T", store)
	}

	path := filepath.Join(t.TempDir(), "props.yaml")
	store, _, err = Open(Options{Backend: "file", Path: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fileStore, ok := store.(*FileStore)
	if !ok {
		t.Fatalf("expected *FileStore, got %T", store)
	}
	if fileStore.Path() != path {
		t.Fatalf("expected path %s, got %s", path, fileStore.Path())
	}
}

func TestOpenErrors(t *testing.T) {
	t.Parallel()

	if _, _, err := Open(Options{Backend: "file"}); !errors.Is(err, ErrMissingPath) {
		t.Fatalf("expected ErrMissingPath, got %v", err)
	}
	if _, _, err := Open(Options{Backend: "etcd"}); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestValidBackend(t *testing.T) {
	t.Parallel()

	for _, name := range Backends() {
		if !ValidBackend(name) {
			t.Fatalf("expected %q to be valid", name)
		}
	}
	if ValidBackend("consul") {
		t.Fatalf("expected consul to be rejected")
	}
}

func TestEphemeral(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]bool{
		"memory":   true,
		" Memory ": true,
		"file":     false,
		"redis":    false,
		"none":     false,
		"":         false,
	} {
		if got := Ephemeral(name); got != want {
			t.Fatalf("Ephemeral(%q) = %v, want %v", name, got, want)
		}
	}
}
