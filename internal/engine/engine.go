// Package engine defines the search engine port used by the search service and its
// Bleve implementation.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/medisearch/internal/facet"
	"github.com/hyperjump/medisearch/internal/filter"
	"github.com/hyperjump/medisearch/internal/query"
)

var (
	// ErrUnavailable is wrapped by errors caused by a closed, unreachable or timed-out engine.
	ErrUnavailable = errors.New("search engine unavailable")
	// ErrQuery is wrapped by errors caused by a query the engine rejected.
	ErrQuery = errors.New("search engine rejected query")
)

// Update statuses.
const (
	StatusOK = 0
	// StatusMissingTargets means some delete-by-id targets did not exist. The rest of
	// the update was applied.
	StatusMissingTargets = 1
)

// SortRelevance is the sort field for the relevance score.
const SortRelevance = "_score"

// HighlightSpec asks for highlighted fragments of stored fields.
type HighlightSpec struct {
	Fields          []string
	FragmentSize    int
	Snippets        int
	MergeContiguous bool
}

// SortSpec is one sort key.
type SortSpec struct {
	Field string
	Desc  bool
}

// SearchRequest is an engine-neutral search.
type SearchRequest struct {
	Query     query.Relevance
	Filters   []filter.Clause
	Facets    []facet.Spec
	Highlight *HighlightSpec
	Offset    int
	Limit     int
	Sort      []SortSpec
}

// Hit is one matched document.
type Hit struct {
	ID        string
	Score     float64
	Fields    map[string]interface{}
	Fragments map[string][]string
}

// SearchResponse is the engine result of a SearchRequest.
type SearchResponse struct {
	Hits   []Hit
	Total  int
	Facets map[string][]facet.Bucket
	Took   time.Duration
}

// SuggestRequest asks for completions of Prefix over Fields.
type SuggestRequest struct {
	Prefix  string
	Fields  []string
	Filters []filter.Clause
	Limit   int
}

// SuggestHit is one completion.
type SuggestHit struct {
	Term    string
	Weight  float64
	Payload string
}

// SuggestResponse is the engine result of a SuggestRequest.
type SuggestResponse struct {
	Suggestions []SuggestHit
}

// Document is one document to add or replace.
type Document struct {
	ID   string
	Body map[string]interface{}
}

// UpdateRequest is applied as a single commit: documents matching DeleteQuery are
// removed first, then DeleteIDs, then Add. When an ID appears in more than one part
// the last operation wins.
type UpdateRequest struct {
	Add         []Document
	DeleteIDs   []string
	DeleteQuery string
}

// UpdateResponse reports a committed update.
type UpdateResponse struct {
	Status  int
	Deleted []string
	Missing []string
	Took    time.Duration
}

// Engine is the search engine collaborator.
type Engine interface {
	Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error)
	Suggest(ctx context.Context, req *SuggestRequest) (*SuggestResponse, error)
	Update(ctx context.Context, req *UpdateRequest) (*UpdateResponse, error)
	// Ping returns nil when the engine can serve requests.
	Ping(ctx context.Context) error
	DocCount() (uint64, error)
	Close() error
}
