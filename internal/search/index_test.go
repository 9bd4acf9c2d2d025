package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/episodeo/episodeo-server/internal/domain"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex(Options{})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func indexFixtures(t *testing.T, idx *Index) {
	t.Helper()
	fixtures := []*domain.SeriesMetadata{
		{
			SeriesID: 1396,
			Title:    "Breaking Bad",
			Synopsis: "A chemistry teacher turns to crime.",
			Cast:     []domain.CastMember{{Name: "Bryan Cranston"}},
		},
		{
			SeriesID:   63639,
			Title:      "The Expanse",
			Synopsis:   "Humanity has colonized the solar system.",
			PosterPath: "/ex.jpg",
		},
		{
			SeriesID: 456,
			Title:    "The Simpsons",
			Synopsis: "An animated family in Springfield.",
		},
	}
	for _, f := range fixtures {
		require.NoError(t, idx.IndexSeries(f))
	}
}

func TestSearchByTitle(t *testing.T) {
	idx := newTestIndex(t)
	indexFixtures(t, idx)

	results, err := idx.Search("expanse", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, 63639, results[0].SeriesID)
	assert.Equal(t, "The Expanse", results[0].Title)
	assert.Equal(t, "/ex.jpg", results[0].PosterPath)
}

func TestSearchByTitlePrefix(t *testing.T) {
	idx := newTestIndex(t)
	indexFixtures(t, idx)

	results, err := idx.Search("break", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, 1396, results[0].SeriesID)
}

func TestSearchByCastName(t *testing.T) {
	idx := newTestIndex(t)
	indexFixtures(t, idx)

	results, err := idx.Search("cranston", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, 1396, results[0].SeriesID)
}

func TestSearchNoMatches(t *testing.T) {
	idx := newTestIndex(t)
	indexFixtures(t, idx)

	results, err := idx.Search("zzzzqqqq", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReindexUpdatesDocument(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.IndexSeries(&domain.SeriesMetadata{SeriesID: 1, Title: "Old Title"}))
	require.NoError(t, idx.IndexSeries(&domain.SeriesMetadata{SeriesID: 1, Title: "New Title"}))

	results, err := idx.Search("new title", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "New Title", results[0].Title)
}

func TestDeleteSeries(t *testing.T) {
	idx := newTestIndex(t)
	indexFixtures(t, idx)

	require.NoError(t, idx.DeleteSeries(456))

	results, err := idx.Search("simpsons", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}
