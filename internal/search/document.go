package search

import (
	"strconv"

	"github.com/episodeo/episodeo-server/internal/domain"
)

// SeriesDocument is the indexed representation of a series metadata
// snapshot.
type SeriesDocument struct {
	ID         string
	Title      string
	Synopsis   string
	Cast       []string
	PosterPath string
}

// NewSeriesDocument builds an index document from a metadata snapshot.
func NewSeriesDocument(meta *domain.SeriesMetadata) *SeriesDocument {
	doc := &SeriesDocument{
		ID:         strconv.Itoa(meta.SeriesID),
		Title:      meta.Title,
		Synopsis:   meta.Synopsis,
		PosterPath: meta.PosterPath,
	}
	for _, c := range meta.Cast {
		doc.Cast = append(doc.Cast, c.Name)
	}
	return doc
}

// ToMap converts the document to a map so field names match the index
// mapping.
func (d *SeriesDocument) ToMap() map[string]any {
	return map[string]any{
		"id":          d.ID,
		"title":       d.Title,
		"synopsis":    d.Synopsis,
		"cast":        d.Cast,
		"poster_path": d.PosterPath,
	}
}
