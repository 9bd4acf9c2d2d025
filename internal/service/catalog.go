package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/episodeo/episodeo-server/internal/cache"
	"github.com/episodeo/episodeo-server/internal/domain"
	"github.com/episodeo/episodeo-server/internal/media/images"
	"github.com/episodeo/episodeo-server/internal/search"
	"github.com/episodeo/episodeo-server/internal/state"
)

// prefetchBatchSize is how many series are fetched concurrently during a
// library prefetch. Batch N+1 starts only after batch N has settled.
const prefetchBatchSize = 5

// MetadataClient is the lookup side of the catalog, satisfied by the
// TMDB client.
type MetadataClient interface {
	Enabled() bool
	Details(ctx context.Context, seriesID int) (*domain.SeriesMetadata, error)
	Search(ctx context.Context, query string) ([]domain.SeriesSearchResult, error)
}

// CatalogService serves series metadata and search, reading through to
// the metadata service and falling back to local snapshots offline.
type CatalogService struct {
	metadata MetadataClient
	cache    cache.Store
	index    *search.Index
	posters  *images.Storage
	state    *state.Container
	logger   *slog.Logger

	// Poster downloads; empty imageBaseURL disables them.
	imageBaseURL string
	httpClient   *http.Client
}

// NewCatalogService creates a catalog service. posters and imageBaseURL
// may be nil/empty to disable poster caching.
func NewCatalogService(metadata MetadataClient, cacheStore cache.Store, index *search.Index, posters *images.Storage, container *state.Container, imageBaseURL string, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		metadata:     metadata,
		cache:        cacheStore,
		index:        index,
		posters:      posters,
		state:        container,
		logger:       logger,
		imageBaseURL: imageBaseURL,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// SeriesDetails returns metadata for a series. A successful lookup
// refreshes the snapshot cache and search index; a failed one degrades
// to the last cached snapshot, and only errors when no snapshot exists.
func (s *CatalogService) SeriesDetails(ctx context.Context, seriesID int) (*domain.SeriesMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta, err := s.metadata.Details(ctx, seriesID)
	if err == nil {
		s.storeSnapshot(ctx, meta)
		return meta, nil
	}

	cached, cacheErr := s.cache.Metadata(ctx, seriesID)
	if cacheErr == nil && cached != nil {
		s.logger.Debug("serving cached metadata", "series_id", seriesID)
		return cached, nil
	}
	return nil, fmt.Errorf("fetch series %d details: %w", seriesID, err)
}

// storeSnapshot persists a fresh snapshot, reindexes it, and kicks off a
// poster download. Failures are logged; a broken cache must not break a
// successful lookup.
func (s *CatalogService) storeSnapshot(ctx context.Context, meta *domain.SeriesMetadata) {
	// Keep the blurhash computed from a previous poster download.
	if prev, err := s.cache.Metadata(ctx, meta.SeriesID); err == nil && prev != nil && meta.BlurHash == "" {
		meta.BlurHash = prev.BlurHash
	}

	if err := s.cache.PutMetadata(ctx, meta); err != nil {
		s.logger.Warn("failed to cache metadata", "series_id", meta.SeriesID, "error", err)
	}
	if err := s.index.IndexSeries(meta); err != nil {
		s.logger.Warn("failed to index metadata", "series_id", meta.SeriesID, "error", err)
	}
	s.fetchPoster(ctx, meta)
}

// fetchPoster downloads and stores the poster once, then records its
// blurhash on the snapshot. Best effort.
func (s *CatalogService) fetchPoster(ctx context.Context, meta *domain.SeriesMetadata) {
	if s.posters == nil || s.imageBaseURL == "" || meta.PosterPath == "" {
		return
	}
	if s.posters.Exists(meta.SeriesID) {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.imageBaseURL+meta.PosterPath, nil)
	if err != nil {
		return
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Debug("poster download failed", "series_id", meta.SeriesID, "error", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return
	}
	if err := s.posters.Save(meta.SeriesID, data); err != nil {
		s.logger.Warn("failed to store poster", "series_id", meta.SeriesID, "error", err)
		return
	}

	if hash, err := images.ComputeBlurHash(data); err == nil {
		meta.BlurHash = hash
		if err := s.cache.PutMetadata(ctx, meta); err != nil {
			s.logger.Warn("failed to cache metadata", "series_id", meta.SeriesID, "error", err)
		}
	}
}

// Poster returns the locally cached poster bytes for a series.
func (s *CatalogService) Poster(seriesID int) ([]byte, error) {
	if s.posters == nil {
		return nil, fmt.Errorf("poster storage disabled")
	}
	return s.posters.Get(seriesID)
}

// Search runs a free-text series search, degrading to the local index
// when the metadata service is unreachable. Offline results only cover
// series this device has seen before.
func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.SeriesSearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results, err := s.metadata.Search(ctx, query)
	if err == nil {
		return results, nil
	}

	s.logger.Warn("metadata search unavailable, using local index", "error", err)
	local, localErr := s.index.Search(query, 20)
	if localErr != nil {
		return nil, fmt.Errorf("search series: %w", err)
	}
	return local, nil
}

// PrefetchLibrary warms the metadata cache for every series in the
// user's library, in fixed-size batches with one batch in flight at a
// time. A failed sibling never blocks the rest of its batch. The work is
// detached from the caller's request.
func (s *CatalogService) PrefetchLibrary(ctx context.Context, userID string) {
	snap := s.state.Get(userID)

	seen := map[int]bool{}
	var ids []int
	add := func(seriesID int) {
		if !seen[seriesID] {
			seen[seriesID] = true
			ids = append(ids, seriesID)
		}
	}
	for seriesID := range snap.Statuses {
		add(seriesID)
	}
	for _, l := range snap.Lists {
		for _, seriesID := range l.SeriesIDs {
			add(seriesID)
		}
	}
	sort.Ints(ids)

	go s.prefetch(context.WithoutCancel(ctx), userID, ids)
}

// prefetch fetches series details in sequential batches.
func (s *CatalogService) prefetch(ctx context.Context, userID string, ids []int) {
	if len(ids) == 0 {
		return
	}
	s.logger.Debug("prefetching library metadata", "user_id", userID, "count", len(ids))

	for start := 0; start < len(ids); start += prefetchBatchSize {
		if ctx.Err() != nil {
			return
		}

		end := min(start+prefetchBatchSize, len(ids))
		batch := ids[start:end]

		done := make(chan struct{}, len(batch))
		for _, seriesID := range batch {
			go func() {
				defer func() { done <- struct{}{} }()
				if _, err := s.SeriesDetails(ctx, seriesID); err != nil {
					s.logger.Debug("prefetch miss", "series_id", seriesID, "error", err)
				}
			}()
		}
		for range batch {
			<-done
		}
	}
}
