package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/episodeo/episodeo-server/internal/api"
	"github.com/episodeo/episodeo-server/internal/config"
	"github.com/episodeo/episodeo-server/internal/logger"
	"github.com/episodeo/episodeo-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the local API daemon.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := api.Services{
		Library:  do.MustInvoke[*service.LibraryService](i),
		Tracking: do.MustInvoke[*service.TrackingService](i),
		Sharing:  do.MustInvoke[*service.SharingService](i),
		Catalog:  do.MustInvoke[*service.CatalogService](i),
	}

	handler := api.NewServer(services, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
