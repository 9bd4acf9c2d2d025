package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/episodeo/episodeo-server/internal/domain"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-series",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/series/{seriesID}",
		Summary:     "Get series metadata",
		Tags:        []string{"Catalog"},
	}, s.handleGetSeries)

	huma.Register(s.api, huma.Operation{
		OperationID: "search-series",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/search",
		Summary:     "Search series by title",
		Tags:        []string{"Catalog"},
	}, s.handleSearchSeries)

	huma.Register(s.api, huma.Operation{
		OperationID:   "prefetch-library",
		Method:        http.MethodPost,
		Path:          "/api/v1/library/prefetch",
		Summary:       "Warm the metadata cache for the user's library",
		Tags:          []string{"Catalog"},
		DefaultStatus: http.StatusAccepted,
	}, s.handlePrefetchLibrary)
}

type getSeriesInput struct {
	SeriesID int `path:"seriesID" minimum:"1"`
}

type getSeriesOutput struct {
	Body domain.SeriesMetadata
}

func (s *Server) handleGetSeries(ctx context.Context, input *getSeriesInput) (*getSeriesOutput, error) {
	meta, err := s.services.Catalog.SeriesDetails(ctx, input.SeriesID)
	if err != nil {
		return nil, err
	}
	return &getSeriesOutput{Body: *meta}, nil
}

type searchSeriesInput struct {
	Query string `query:"q" minLength:"1" doc:"Free-text query"`
}

type searchSeriesOutput struct {
	Body struct {
		Results []domain.SeriesSearchResult `json:"results"`
	}
}

func (s *Server) handleSearchSeries(ctx context.Context, input *searchSeriesInput) (*searchSeriesOutput, error) {
	results, err := s.services.Catalog.Search(ctx, input.Query)
	if err != nil {
		return nil, err
	}

	out := &searchSeriesOutput{}
	out.Body.Results = results
	if out.Body.Results == nil {
		out.Body.Results = []domain.SeriesSearchResult{}
	}
	return out, nil
}

type prefetchInput struct {
	SessionHeader
}

func (s *Server) handlePrefetchLibrary(ctx context.Context, input *prefetchInput) (*struct{}, error) {
	s.services.Catalog.PrefetchLibrary(ctx, input.UserID)
	return nil, nil
}

// handlePoster streams the locally cached poster image.
func (s *Server) handlePoster(w http.ResponseWriter, r *http.Request) {
	seriesID, err := strconv.Atoi(chi.URLParam(r, "seriesID"))
	if err != nil || seriesID < 1 {
		http.Error(w, "invalid series id", http.StatusBadRequest)
		return
	}

	data, err := s.services.Catalog.Poster(seriesID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(data)
}
