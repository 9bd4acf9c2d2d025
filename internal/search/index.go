// Package search maintains a local full-text index over cached series
// metadata. It serves free-text queries while the metadata service is
// unreachable, so offline search only knows about series the device has
// seen before.
package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/episodeo/episodeo-server/internal/domain"
)

// mappingVersion is bumped whenever the index mapping changes, which
// forces a rebuild on startup.
const mappingVersion = "1"

// Index wraps a Bleve index over series documents.
// All public methods are safe for concurrent use.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage; empty means in-memory
	Logger   *slog.Logger
}

// NewIndex creates or opens the series search index. A corrupted or
// outdated on-disk index is removed and recreated; the index is rebuilt
// lazily as metadata snapshots flow through the catalog.
func NewIndex(opts Options) (*Index, error) {
	if opts.DataPath == "" {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &Index{index: index, logger: opts.Logger}, nil
	}

	indexPath := filepath.Join(opts.DataPath, "series.bleve")
	versionPath := filepath.Join(opts.DataPath, "series.version")

	needsRebuild := false
	if _, err := os.Stat(indexPath); err == nil {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil || string(existingVersion) != mappingVersion {
			needsRebuild = true
		}
	}

	var index bleve.Index
	var err error
	if !needsRebuild {
		index, err = bleve.Open(indexPath)
		if err != nil && err != bleve.ErrorIndexPathDoesNotExist {
			if opts.Logger != nil {
				opts.Logger.Warn("failed to open search index, recreating", "path", indexPath, "error", err)
			}
			needsRebuild = true
		}
	}

	if needsRebuild {
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("remove old index: %w", err)
		}
		index = nil
	}

	if index == nil {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); writeErr != nil && opts.Logger != nil {
			opts.Logger.Warn("failed to write search version file", "error", writeErr)
		}
	}

	return &Index{index: index, logger: opts.Logger}, nil
}

// Close closes the index and releases resources.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.index.Close()
}

// IndexSeries adds or updates one series in the index.
func (i *Index) IndexSeries(meta *domain.SeriesMetadata) error {
	i.mu.RLock()
	defer i.mu.RUnlock()

	doc := NewSeriesDocument(meta)
	if err := i.index.Index(doc.ID, doc.ToMap()); err != nil {
		return fmt.Errorf("index series %s: %w", doc.ID, err)
	}
	return nil
}

// DeleteSeries removes a series from the index.
func (i *Index) DeleteSeries(seriesID int) error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.index.Delete(strconv.Itoa(seriesID))
}

// Search runs a free-text query over titles, synopses, and cast.
func (i *Index) Search(query string, limit int) ([]domain.SeriesSearchResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	// Match with mild fuzziness plus a prefix clause so partial titles
	// typed into a search box still hit.
	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetFuzziness(1)

	prefixQuery := bleve.NewPrefixQuery(strings.ToLower(query))
	prefixQuery.SetField("title")

	searchQuery := bleve.NewDisjunctionQuery(matchQuery, prefixQuery)

	req := bleve.NewSearchRequestOptions(searchQuery, limit, 0, false)
	req.Fields = []string{"title", "poster_path"}

	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := make([]domain.SeriesSearchResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		seriesID, err := strconv.Atoi(hit.ID)
		if err != nil {
			continue
		}
		r := domain.SeriesSearchResult{SeriesID: seriesID}
		if title, ok := hit.Fields["title"].(string); ok {
			r.Title = title
		}
		if poster, ok := hit.Fields["poster_path"].(string); ok {
			r.PosterPath = poster
		}
		results = append(results, r)
	}
	return results, nil
}
