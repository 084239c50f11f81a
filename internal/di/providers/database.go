package providers

import (
	"github.com/samber/do/v2"

	"github.com/nihilcoder/promptlab/internal/config"
	"github.com/nihilcoder/promptlab/internal/logger"
	"github.com/nihilcoder/promptlab/internal/store/sqldb"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqldb.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the configured database and applies the schema.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := sqldb.Open(cfg.Database.DriverName(), cfg.Database.ConnString(), log.Logger)
	if err != nil {
		return nil, err
	}

	if cfg.Database.Driver == config.DriverSQLite && cfg.Database.Path != "" {
		log.Info("Database initialized", "driver", cfg.Database.Driver, "path", cfg.Database.Path)
	} else {
		log.Info("Database initialized", "driver", cfg.Database.Driver)
	}

	return &StoreHandle{Store: db}, nil
}
