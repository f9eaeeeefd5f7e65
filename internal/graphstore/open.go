package graphstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/specialistvlad/tracegraph/internal/metatype"
)

// Config selects and configures a backend.
type Config struct {
	Backend string        `validate:"omitempty,oneof=memory badger redis sqlite"`
	Path    string        `validate:"required_if=Backend badger,required_if=Backend sqlite"`
	URL     string        `validate:"required_if=Backend redis"`
	Prefix  string
	TTL     time.Duration `validate:"gte=0"`
}

// Open builds the store described by cfg. An empty Backend means memory.
func Open(ctx context.Context, cfg Config, r *metatype.Registry, logger *slog.Logger) (*Store, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.Backend {
	case "", "memory":
		backend = NewMemoryBackend()
	case "badger":
		backend, err = OpenBadger(BadgerConfig{Path: cfg.Path, Logger: logger})
	case "redis":
		backend, err = DialRedis(ctx, cfg.URL, cfg.Prefix, cfg.TTL)
	case "sqlite":
		backend, err = OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown graph store backend '%s'", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return New(backend, r), nil
}
