package engine

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/hyperjump/medisearch/internal/profile"
)

// textSuffix names the analyzed companion of a keyword field.
const textSuffix = "_text"

// NewIndexMapping builds the index mapping from the registry's field kinds. Keyword
// fields are indexed verbatim for filters and facets and again, analyzed, under
// "<field>_text" so they can take part in relevance scoring.
// If you change the mapping, remove the index directory and run reindex.
func NewIndexMapping(reg *profile.Registry) *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	doc := bleve.NewDocumentMapping()
	for _, f := range reg.FieldsOfKind(profile.KindText) {
		doc.AddFieldMappingsAt(f, textField())
	}
	for _, f := range reg.FieldsOfKind(profile.KindKeyword) {
		companion := bleve.NewTextFieldMapping()
		companion.Name = f + textSuffix
		companion.Analyzer = standard.Name
		companion.Store = false
		companion.IncludeInAll = false
		doc.AddFieldMappingsAt(f, bleve.NewKeywordFieldMapping(), companion)
	}
	for _, f := range reg.FieldsOfKind(profile.KindBoolean) {
		doc.AddFieldMappingsAt(f, bleve.NewKeywordFieldMapping())
	}
	for _, f := range reg.FieldsOfKind(profile.KindDate) {
		doc.AddFieldMappingsAt(f, bleve.NewDateTimeFieldMapping())
	}
	for _, f := range reg.FieldsOfKind(profile.KindNumeric) {
		doc.AddFieldMappingsAt(f, bleve.NewNumericFieldMapping())
	}

	im.AddDocumentMapping("record", doc)
	im.DefaultType = "record"
	im.DefaultMapping = doc
	return im
}

func textField() *mapping.FieldMapping {
	fm := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) keeps Vietnamese words intact.
	fm.Analyzer = standard.Name
	fm.Store = true
	fm.IncludeTermVectors = true
	return fm
}

// indexedField returns the field a relevance or prefix query on f should target.
func indexedField(reg *profile.Registry, f string) string {
	if k, ok := reg.KindOf(f); ok && k == profile.KindKeyword {
		return f + textSuffix
	}
	return f
}
