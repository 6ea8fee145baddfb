// Package storage persists small blobs under well-known keys. It is the
// local-storage equivalent the profile store is saved to.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "micropad"

// ErrUnknownBackend is returned by Open for unsupported backend names.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Backend stores opaque values by key.
type Backend interface {
	// Get returns the value for key; ok is false when the key was never set.
	Get(key string) (value []byte, ok bool, err error)
	Put(key string, value []byte) error
	Close() error
}

// Config selects and locates the backend.
type Config struct {
	Backend string `help:"Profile storage backend (file, sqlite)" default:"file" enum:"file,sqlite"`
	Path    string `help:"Storage location: directory for file, database path for sqlite (default: XDG data dir)"`
}

// Open returns the configured backend.
func Open(cfg Config) (Backend, error) {
	switch cfg.Backend {
	case "", "file":
		dir := cfg.Path
		if dir == "" {
			p, err := xdg.DataFile(filepath.Join(appName, "profiles", ".keep"))
			if err != nil {
				return nil, err
			}
			dir = filepath.Dir(p)
		}
		return NewFile(dir)
	case "sqlite":
		path := cfg.Path
		if path == "" {
			p, err := xdg.DataFile(filepath.Join(appName, "micropad.db"))
			if err != nil {
				return nil, err
			}
			path = p
		}
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
