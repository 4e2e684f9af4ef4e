package store

import (
	"fmt"

	"github.com/filehost/filehost/internal/config"
	"github.com/filehost/filehost/pkg/logger"
)

// Open builds the repository selected by STORE_BACKEND.
func Open(storeCfg config.StoreConfig, dbCfg config.DBConfig) (Repository, error) {
	logger.Info("store_opening", map[string]interface{}{
		"backend": storeCfg.Backend,
		"path":    storeCfg.Path,
	})

	switch storeCfg.Backend {
	case "", "json":
		return NewJSONFileRepository(storeCfg.Path)
	case "sqlite":
		return OpenSQLite(storeCfg.Path)
	case "postgres":
		return OpenPostgres(dbCfg)
	case "memory":
		return NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", storeCfg.Backend)
	}
}
