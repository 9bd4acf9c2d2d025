package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for series documents.
// Titles and synopses get English stemming; IDs and poster paths are
// stored verbatim for result assembly.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	synopsisFieldMapping := bleve.NewTextFieldMapping()
	synopsisFieldMapping.Analyzer = en.AnalyzerName
	synopsisFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("synopsis", synopsisFieldMapping)

	castFieldMapping := bleve.NewTextFieldMapping()
	castFieldMapping.Analyzer = en.AnalyzerName
	castFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("cast", castFieldMapping)

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	idFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	posterFieldMapping := bleve.NewTextFieldMapping()
	posterFieldMapping.Analyzer = keyword.Name
	posterFieldMapping.Store = true
	posterFieldMapping.Index = false
	docMapping.AddFieldMappingsAt("poster_path", posterFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}
