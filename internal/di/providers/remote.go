package providers

import (
	"github.com/samber/do/v2"

	"github.com/episodeo/episodeo-server/internal/config"
	"github.com/episodeo/episodeo-server/internal/logger"
	"github.com/episodeo/episodeo-server/internal/metadata/tmdb"
	"github.com/episodeo/episodeo-server/internal/remote"
)

// ProvideRemoteClient provides the cloud document store client.
func ProvideRemoteClient(i do.Injector) (*remote.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, log.Logger), nil
}

// ProvideTMDBClient provides the metadata lookup client. An empty API key
// is allowed; lookups then degrade to the local snapshot cache.
func ProvideTMDBClient(i do.Injector) (*tmdb.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.TMDB.APIKey == "" {
		log.Warn("TMDB API key not configured, metadata lookups disabled")
	}
	return tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.Language, log.Logger), nil
}
