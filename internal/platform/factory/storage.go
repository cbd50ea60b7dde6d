// Package factory wires configuration to concrete storage backends. There is
// no hidden singleton: callers own the returned store and its lifetime, and a
// new store must be constructed to observe an updated usage-stats snapshot.
package factory

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/promptvault/promptvault/internal/config"
	"github.com/promptvault/promptvault/internal/store"
	"github.com/promptvault/promptvault/internal/store/fsstore"
	"github.com/promptvault/promptvault/internal/store/postgres"
	"github.com/promptvault/promptvault/internal/store/sqlite"
)

// NewStore selects the storage backend for cfg.DBDriver. Stats may be nil to
// disable usage-aware ordering.
func NewStore(cfg *config.Config, stats store.StatsProvider, log zerolog.Logger) (store.Store, error) {
	switch cfg.DBDriver {
	case "fs":
		return fsstore.New(cfg.FSRoot, stats, log), nil
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqlite.New(db, stats)
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return postgres.New(db, stats), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
