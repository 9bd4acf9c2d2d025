package providers

import (
	"github.com/samber/do/v2"

	"github.com/episodeo/episodeo-server/internal/config"
	"github.com/episodeo/episodeo-server/internal/logger"
	"github.com/episodeo/episodeo-server/internal/media/images"
	"github.com/episodeo/episodeo-server/internal/metadata/tmdb"
	"github.com/episodeo/episodeo-server/internal/remote"
	"github.com/episodeo/episodeo-server/internal/service"
	"github.com/episodeo/episodeo-server/internal/state"
)

// ProvideLibraryService provides the library reconciliation service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	remoteClient := do.MustInvoke[*remote.Client](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	container := do.MustInvoke[*state.Container](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLibraryService(remoteClient, cacheHandle.Store, container, log.Logger), nil
}

// ProvideTrackingService provides the optimistic mutation service.
func ProvideTrackingService(i do.Injector) (*service.TrackingService, error) {
	remoteClient := do.MustInvoke[*remote.Client](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	container := do.MustInvoke[*state.Container](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTrackingService(remoteClient, cacheHandle.Store, container, log.Logger), nil
}

// ProvideSharingService provides the share code service.
func ProvideSharingService(i do.Injector) (*service.SharingService, error) {
	remoteClient := do.MustInvoke[*remote.Client](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	container := do.MustInvoke[*state.Container](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSharingService(remoteClient, cacheHandle.Store, container, log.Logger), nil
}

// ProvideCatalogService provides the metadata catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	metadataClient := do.MustInvoke[*tmdb.Client](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	posters := do.MustInvoke[*images.Storage](i)
	container := do.MustInvoke[*state.Container](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(
		metadataClient,
		cacheHandle.Store,
		searchHandle.Index,
		posters,
		container,
		cfg.TMDB.ImageBaseURL,
		log.Logger,
	), nil
}
