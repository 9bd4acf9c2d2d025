package providers

import (
	"fmt"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/episodeo/episodeo-server/internal/cache"
	badgercache "github.com/episodeo/episodeo-server/internal/cache/badger"
	sqlitecache "github.com/episodeo/episodeo-server/internal/cache/sqlite"
	"github.com/episodeo/episodeo-server/internal/config"
	"github.com/episodeo/episodeo-server/internal/logger"
	"github.com/episodeo/episodeo-server/internal/media/images"
	"github.com/episodeo/episodeo-server/internal/state"
)

// CacheHandle wraps the local cache store with shutdown capability.
type CacheHandle struct {
	cache.Store
}

// Shutdown implements do.Shutdownable.
func (h *CacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideCache provides the local cache store selected by configuration.
func ProvideCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var (
		store cache.Store
		err   error
	)
	switch cfg.Cache.Backend {
	case "sqlite":
		store, err = sqlitecache.Open(filepath.Join(cfg.Data.BasePath, "cache.db"), log.Logger)
	case "badger":
		store, err = badgercache.New(filepath.Join(cfg.Data.BasePath, "cache"), log.Logger)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}

	log.Info("Local cache ready", "backend", cfg.Cache.Backend, "path", cfg.Data.BasePath)
	return &CacheHandle{Store: store}, nil
}

// ProvidePosterStorage provides local poster image storage.
func ProvidePosterStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return images.NewStorage(cfg.Data.BasePath)
}

// ProvideStateContainer provides the in-memory library state container.
func ProvideStateContainer(i do.Injector) (*state.Container, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return state.NewContainer(log.Logger), nil
}
