// Package tmdb provides access to the TMDB API for series metadata and
// free-text search.
package tmdb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/episodeo/episodeo-server/internal/domain"
	"github.com/episodeo/episodeo-server/internal/errors"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// Client provides access to the TMDB API.
type Client struct {
	baseURL     string
	apiKey      string
	language    string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// NewClient creates a TMDB client. TMDB allows roughly 50 requests per
// second; we stay well under that.
func NewClient(apiKey, language string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:  defaultBaseURL,
		apiKey:   apiKey,
		language: language,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(50*time.Millisecond), 10),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether the client has an API key. Without one every
// lookup fails and callers fall back to cached snapshots.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// wait blocks until the rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}

// get performs a GET request and decodes the JSON response into dest.
func (c *Client) get(ctx context.Context, path string, params url.Values, dest any) error {
	if !c.Enabled() {
		return errors.Offline("metadata lookups disabled: no API key", nil)
	}
	if err := c.wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Offline("metadata service unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.NotFound("series not found")
	case resp.StatusCode != http.StatusOK:
		return errors.Internal(fmt.Sprintf("tmdb request failed: status %d", resp.StatusCode), nil)
	}

	if err := json.UnmarshalRead(resp.Body, dest); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// Details fetches full series metadata, with cast and watch providers
// appended in the same round trip.
func (c *Client) Details(ctx context.Context, seriesID int) (*domain.SeriesMetadata, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,watch/providers")

	var resp seriesDetailsResponse
	if err := c.get(ctx, "/tv/"+strconv.Itoa(seriesID), params, &resp); err != nil {
		return nil, fmt.Errorf("fetch series %d: %w", seriesID, err)
	}

	if c.logger != nil {
		c.logger.Debug("fetched series details", "series_id", seriesID, "title", resp.Name)
	}
	return resp.toDomain(), nil
}

// Search performs a free-text series search.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SeriesSearchResult, error) {
	params := url.Values{}
	params.Set("query", query)

	var resp searchResponse
	if err := c.get(ctx, "/search/tv", params, &resp); err != nil {
		return nil, fmt.Errorf("search series: %w", err)
	}

	results := make([]domain.SeriesSearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, domain.SeriesSearchResult{
			SeriesID:   r.ID,
			Title:      r.Name,
			PosterPath: r.PosterPath,
		})
	}

	if c.logger != nil {
		c.logger.Debug("series search", "query", query, "count", len(results))
	}
	return results, nil
}
