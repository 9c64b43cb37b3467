// Package persist stores rebind packs between sessions.
package persist

import (
	"context"
	"fmt"
	"io"

	"github.com/pleimann/rebinder/internal/config"
	"github.com/pleimann/rebinder/internal/rebind"
)

// Backend is a pack persister that may hold resources
type Backend interface {
	rebind.Persister
	io.Closer
}

type fileBackend struct {
	*FileStore
}

func (fileBackend) Close() error { return nil }

// Open returns the backend selected by cfg
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.Persistence.Backend {
	case config.BackendYAML, "":
		return fileBackend{NewFileStore(cfg.StorePath())}, nil
	case config.BackendSQLite:
		s, err := OpenSQLite(ctx, cfg.StorePath())
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown persistence backend %q", cfg.Persistence.Backend)
	}
}
