package providers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/episodeo/episodeo-server/internal/config"
	"github.com/episodeo/episodeo-server/internal/logger"
	"github.com/episodeo/episodeo-server/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the local series search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dataPath := filepath.Join(cfg.Data.BasePath, "search")
	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create search directory: %w", err)
	}

	index, err := search.NewIndex(search.Options{
		DataPath: dataPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}

	log.Info("Search index ready", "path", dataPath)
	return &SearchIndexHandle{Index: index}, nil
}
