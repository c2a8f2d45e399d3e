// Package storage provides the opaque key-value persistence the scenario
// store writes through. Backends are interchangeable; the store never knows
// which one is behind the interface.
package storage

import (
	"errors"
	"fmt"
)

// Backend names a KV implementation.
type Backend string

const (
	// BackendMemory keeps values in process memory. Used by tests and as an
	// explicit opt-out of durability.
	BackendMemory Backend = "memory"
	// BackendFile stores each key as one file under a root directory.
	BackendFile Backend = "file"
	// BackendSQLite stores keys in a single SQLite database.
	BackendSQLite Backend = "sqlite"
)

// ErrNotFound indicates the key has no stored value.
var ErrNotFound = errors.New("key not found")

// KV is an opaque key-value store. Get returns ErrNotFound for absent keys.
type KV interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Close() error
}

// Open selects a backend by name. For the file backend path is the storage
// root directory; for sqlite it is the database file. The memory backend
// ignores it.
func Open(backend Backend, path string) (KV, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return NewFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
