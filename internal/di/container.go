// Package di provides dependency injection configuration for the Episodeo daemon.
package di

import (
	"github.com/samber/do/v2"

	"github.com/episodeo/episodeo-server/internal/config"
	"github.com/episodeo/episodeo-server/internal/di/providers"
	"github.com/episodeo/episodeo-server/internal/logger"
	"github.com/episodeo/episodeo-server/internal/media/images"
	"github.com/episodeo/episodeo-server/internal/metadata/tmdb"
	"github.com/episodeo/episodeo-server/internal/remote"
	"github.com/episodeo/episodeo-server/internal/service"
	"github.com/episodeo/episodeo-server/internal/state"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideCache)
	do.Provide(injector, providers.ProvidePosterStorage)
	do.Provide(injector, providers.ProvideStateContainer)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Remote clients
	do.Provide(injector, providers.ProvideRemoteClient)
	do.Provide(injector, providers.ProvideTMDBClient)

	// Business services
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideTrackingService)
	do.Provide(injector, providers.ProvideSharingService)
	do.Provide(injector, providers.ProvideCatalogService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services. This triggers lazy initialization
// of everything the daemon needs before it starts serving.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)

	_ = do.MustInvoke[*providers.CacheHandle](injector)
	_ = do.MustInvoke[*images.Storage](injector)
	_ = do.MustInvoke[*state.Container](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)

	_ = do.MustInvoke[*remote.Client](injector)
	_ = do.MustInvoke[*tmdb.Client](injector)

	_ = do.MustInvoke[*service.LibraryService](injector)
	_ = do.MustInvoke[*service.TrackingService](injector)
	_ = do.MustInvoke[*service.SharingService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
