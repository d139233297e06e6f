package history

import (
	"fmt"
	"log/slog"

	"cytosight/csvexport/pkg/config"
)

// NewStore opens the backend selected by cfg.Driver.
func NewStore(cfg *config.HistoryConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverSQLite3, config.DriverSQLite:
		return NewSQLiteStore(SQLiteConfig{
			Driver:       cfg.Driver,
			Path:         cfg.Path,
			MaxOpenConns: cfg.MaxOpenConns,
			WALMode:      cfg.WALMode,
			BusyTimeout:  cfg.BusyTimeout,
			Logger:       logger,
		})
	default:
		return nil, NewStorageError(cfg.Driver, "open", fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver))
	}
}
