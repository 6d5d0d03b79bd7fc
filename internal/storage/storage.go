// Package storage persists the signed-in session on the local device.
//
// A backend holds a handful of string keys. The session store writes the
// token and the serialized principal together so that a crash can never
// leave one without the other.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Keys used by the session store.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Drivers accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("storage: key not found")

// ErrCorrupt is returned by Get when the saved document cannot be decoded.
// Put and Delete replace such a document instead of failing.
var ErrCorrupt = errors.New("storage: saved session is corrupt")

// Backend defines the interface for session persistence.
type Backend interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Put writes all entries in one atomic step.
	Put(ctx context.Context, entries map[string]string) error
	// Delete removes all keys in one atomic step. Absent keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	// Close releases any resources held by the backend.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver string
	Path   string
}

// Open returns the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Driver {
	case DriverFile, "":
		return NewFileBackend(opts.Path)
	case DriverSQLite:
		return NewSQLiteBackend(ctx, opts.Path)
	case DriverMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}

func cloneEntries(entries map[string]string) map[string]string {
	out := make(map[string]string, len(entries))
	for k, v := range entries {
		out[k] = v
	}
	return out
}
