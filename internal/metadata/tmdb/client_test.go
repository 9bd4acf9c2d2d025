package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/episodeo/episodeo-server/internal/errors"
)

const detailsBody = `{
	"id": 1396,
	"name": "Breaking Bad",
	"overview": "A chemistry teacher turns to crime.",
	"poster_path": "/bb.jpg",
	"first_air_date": "2008-01-20",
	"credits": {
		"cast": [
			{"name": "Bryan Cranston", "character": "Walter White"},
			{"name": "Aaron Paul", "character": "Jesse Pinkman"}
		]
	},
	"watch/providers": {
		"results": {
			"US": {
				"flatrate": [{"provider_name": "Netflix"}],
				"buy": [{"provider_name": "Apple TV"}, {"provider_name": "Netflix"}]
			}
		}
	}
}`

func TestDetailsAppendsCreditsAndProviders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/1396", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "credits,watch/providers", q.Get("append_to_response"))
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "en-US", q.Get("language"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(detailsBody))
	}))
	defer srv.Close()

	c := NewClient("test-key", "en-US", nil, WithBaseURL(srv.URL))
	meta, err := c.Details(context.Background(), 1396)
	require.NoError(t, err)

	assert.Equal(t, 1396, meta.SeriesID)
	assert.Equal(t, "Breaking Bad", meta.Title)
	assert.Equal(t, "/bb.jpg", meta.PosterPath)
	assert.Equal(t, "2008-01-20", meta.ReleaseDate)
	require.Len(t, meta.Cast, 2)
	assert.Equal(t, "Walter White", meta.Cast[0].Character)
	// Providers are merged and deduplicated across offer types.
	assert.Equal(t, []string{"Netflix", "Apple TV"}, meta.WatchProviders["US"])
}

func TestDetailsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("test-key", "en-US", nil, WithBaseURL(srv.URL))
	_, err := c.Details(context.Background(), 999999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/tv", r.URL.Path)
		assert.Equal(t, "expanse", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [{"id": 63639, "name": "The Expanse", "poster_path": "/ex.jpg"}]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "en-US", nil, WithBaseURL(srv.URL))
	results, err := c.Search(context.Background(), "expanse")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 63639, results[0].SeriesID)
	assert.Equal(t, "The Expanse", results[0].Title)
}

func TestMissingAPIKeyFailsAsOffline(t *testing.T) {
	c := NewClient("", "en-US", nil)
	assert.False(t, c.Enabled())

	_, err := c.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrOffline))
}
