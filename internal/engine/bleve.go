package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/highlight/highlighter/html"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/medisearch/internal/facet"
	"github.com/hyperjump/medisearch/internal/profile"
	"github.com/hyperjump/medisearch/internal/query"
	"go.uber.org/zap"
)

const (
	defaultLimit      = 10
	defaultFacetLimit = 10
	deletePageSize    = 1000
)

// BleveEngine implements Engine on an embedded Bleve index.
type BleveEngine struct {
	index    bleve.Index
	registry *profile.Registry
	logger   *zap.Logger
}

// Option configures a BleveEngine.
type Option func(*BleveEngine)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(b *BleveEngine) { b.logger = l }
}

// NewBleveEngine creates or opens a Bleve index at path. An existing index is reused
// with the mapping it was created with. An empty path creates an in-memory index.
func NewBleveEngine(path string, reg *profile.Registry, opts ...Option) (*BleveEngine, error) {
	b := &BleveEngine{registry: reg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}

	if path == "" {
		index, err := bleve.NewMemOnly(NewIndexMapping(reg))
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory Bleve index: %w", err)
		}
		b.index = index
		return b, nil
	}

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		b.index = index
		return b, nil
	}

	index, err := bleve.New(path, NewIndexMapping(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	b.index = index
	return b, nil
}

// Search runs req as one Bleve search request.
func (b *BleveEngine) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	sr := bleve.NewSearchRequestOptions(b.buildQuery(req), limit, req.Offset, false)
	sr.Fields = []string{"*"}
	sr.SortBy(SortOrder(req.Sort))

	if req.Highlight != nil && len(req.Highlight.Fields) > 0 {
		hl := bleve.NewHighlightWithStyle(html.Name)
		hl.Fields = req.Highlight.Fields
		sr.Highlight = hl
	}
	for _, spec := range req.Facets {
		size := spec.Limit
		if size <= 0 {
			size = defaultFacetLimit
		}
		fr := bleve.NewFacetRequest(spec.Field, size)
		for _, r := range spec.Ranges {
			start, end := r.Start, r.End
			fr.AddDateTimeRange(r.Name, start, end)
		}
		sr.AddFacet(spec.Name, fr)
	}

	res, err := b.index.SearchInContext(ctx, sr)
	if err != nil {
		return nil, classify(err)
	}

	out := &SearchResponse{
		Hits:   make([]Hit, 0, len(res.Hits)),
		Total:  int(res.Total),
		Facets: make(map[string][]facet.Bucket, len(res.Facets)),
		Took:   res.Took,
	}
	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score, Fields: h.Fields}
		if len(h.Fragments) > 0 {
			hit.Fragments = make(map[string][]string, len(h.Fragments))
			for field, frags := range h.Fragments {
				hit.Fragments[field] = frags
			}
		}
		out.Hits = append(out.Hits, hit)
	}
	for name, fr := range res.Facets {
		buckets, err := decodeFacet(fr)
		if err != nil {
			b.logger.Warn("failed to decode facet", zap.String("facet", name), zap.Error(err))
			continue
		}
		out.Facets[name] = buckets
	}
	return out, nil
}

func (b *BleveEngine) buildQuery(req *SearchRequest) blevequery.Query {
	var relevance blevequery.Query
	if req.Query.MatchAll || len(req.Query.Fields) == 0 {
		relevance = bleve.NewMatchAllQuery()
	} else {
		text := req.Query.Text
		should := make([]blevequery.Query, 0, len(req.Query.Fields)+2*len(req.Query.PhraseFields))
		for _, fw := range req.Query.Fields {
			mq := bleve.NewMatchQuery(text)
			mq.SetField(indexedField(b.registry, fw.Field))
			mq.SetBoost(fw.Weight)
			should = append(should, mq)
		}
		for _, f := range req.Query.PhraseFields {
			field := indexedField(b.registry, f)
			pq := bleve.NewMatchPhraseQuery(text)
			pq.SetField(field)
			pq.SetBoost(req.Query.PhraseBoost)
			should = append(should, pq)
			// Bleve phrases are exact; a slop window is approximated by requiring
			// every word in the field at half the phrase boost.
			if req.Query.PhraseSlop > 0 {
				all := bleve.NewMatchQuery(text)
				all.SetField(field)
				all.SetOperator(blevequery.MatchQueryOperatorAnd)
				all.SetBoost(req.Query.PhraseBoost / 2)
				should = append(should, all)
			}
		}
		relevance = bleve.NewDisjunctionQuery(should...)
	}
	if len(req.Filters) == 0 {
		return relevance
	}
	must := make([]blevequery.Query, 0, len(req.Filters)+1)
	must = append(must, relevance)
	for _, c := range req.Filters {
		must = append(must, bleve.NewQueryStringQuery(c.String()))
	}
	return bleve.NewConjunctionQuery(must...)
}

// SortOrder renders specs as Bleve sort keys. No specs means relevance, then newest first.
func SortOrder(specs []SortSpec) []string {
	if len(specs) == 0 {
		return []string{"-" + SortRelevance, "-created_at"}
	}
	order := make([]string, len(specs))
	for i, s := range specs {
		if s.Desc {
			order[i] = "-" + s.Field
		} else {
			order[i] = s.Field
		}
	}
	return order
}

type facetJSON struct {
	Terms []struct {
		Term  string `json:"term"`
		Count int    `json:"count"`
	} `json:"terms"`
	DateRanges []struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	} `json:"date_ranges"`
}

// decodeFacet reads term and date range buckets through the facet's JSON form,
// which is stable across Bleve releases.
func decodeFacet(fr *search.FacetResult) ([]facet.Bucket, error) {
	data, err := json.Marshal(fr)
	if err != nil {
		return nil, err
	}
	var raw facetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	buckets := make([]facet.Bucket, 0, len(raw.Terms)+len(raw.DateRanges))
	for _, t := range raw.Terms {
		buckets = append(buckets, facet.Bucket{Value: t.Term, Count: t.Count})
	}
	for _, r := range raw.DateRanges {
		buckets = append(buckets, facet.Bucket{Value: r.Name, Count: r.Count})
	}
	return buckets, nil
}

// Suggest completes the last word of Prefix and requires the earlier words to match
// the same field. Terms are the stored field values, deduplicated case-insensitively.
func (b *BleveEngine) Suggest(ctx context.Context, req *SuggestRequest) (*SuggestResponse, error) {
	words := tokenize(req.Prefix)
	out := &SuggestResponse{Suggestions: []SuggestHit{}}
	if len(words) == 0 || len(req.Fields) == 0 {
		return out, nil
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	last, lead := words[len(words)-1], words[:len(words)-1]

	perField := make([]blevequery.Query, 0, len(req.Fields))
	for _, f := range req.Fields {
		field := indexedField(b.registry, f)
		pq := bleve.NewPrefixQuery(last)
		pq.SetField(field)
		parts := []blevequery.Query{pq}
		if len(lead) > 0 {
			mq := bleve.NewMatchQuery(strings.Join(lead, " "))
			mq.SetField(field)
			mq.SetOperator(blevequery.MatchQueryOperatorAnd)
			parts = append(parts, mq)
		}
		perField = append(perField, bleve.NewConjunctionQuery(parts...))
	}
	var q blevequery.Query = bleve.NewDisjunctionQuery(perField...)
	if len(req.Filters) > 0 {
		must := []blevequery.Query{q}
		for _, c := range req.Filters {
			must = append(must, bleve.NewQueryStringQuery(c.String()))
		}
		q = bleve.NewConjunctionQuery(must...)
	}

	sr := bleve.NewSearchRequestOptions(q, limit*3, 0, false)
	sr.Fields = req.Fields
	res, err := b.index.SearchInContext(ctx, sr)
	if err != nil {
		return nil, classify(err)
	}
	seen := make(map[string]struct{})
	for _, h := range res.Hits {
		term := matchingValue(h.Fields, req.Fields, lead, last)
		if term == "" {
			continue
		}
		key := strings.ToLower(term)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Suggestions = append(out.Suggestions, SuggestHit{Term: term, Weight: h.Score, Payload: h.ID})
		if len(out.Suggestions) >= limit {
			break
		}
	}
	return out, nil
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// matchingValue returns the first stored field value containing every lead word and a
// word starting with last.
func matchingValue(stored map[string]interface{}, fields, lead []string, last string) string {
	for _, f := range fields {
		v, ok := stored[f].(string)
		if !ok || v == "" {
			continue
		}
		tokens := tokenize(v)
		set := make(map[string]struct{}, len(tokens))
		prefixed := false
		for _, t := range tokens {
			set[t] = struct{}{}
			if strings.HasPrefix(t, last) {
				prefixed = true
			}
		}
		if !prefixed {
			continue
		}
		all := true
		for _, w := range lead {
			if _, ok := set[w]; !ok {
				all = false
				break
			}
		}
		if all {
			return v
		}
	}
	return ""
}

// Update applies req as one Bleve batch.
func (b *BleveEngine) Update(ctx context.Context, req *UpdateRequest) (*UpdateResponse, error) {
	start := time.Now()
	resp := &UpdateResponse{Status: StatusOK}
	batch := b.index.NewBatch()

	if strings.TrimSpace(req.DeleteQuery) != "" {
		ids, err := b.matchingIDs(ctx, req.DeleteQuery)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			batch.Delete(id)
		}
		resp.Deleted = append(resp.Deleted, ids...)
	}
	for _, id := range req.DeleteIDs {
		doc, err := b.index.Document(id)
		if err != nil {
			return nil, classify(err)
		}
		if doc == nil {
			resp.Missing = append(resp.Missing, id)
			continue
		}
		batch.Delete(id)
		resp.Deleted = append(resp.Deleted, id)
	}
	for _, d := range req.Add {
		if err := batch.Index(d.ID, d.Body); err != nil {
			return nil, fmt.Errorf("%w: document %s: %w", ErrQuery, d.ID, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, classify(err)
	}
	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			return nil, classify(err)
		}
	}
	if len(resp.Missing) > 0 {
		resp.Status = StatusMissingTargets
	}
	resp.Took = time.Since(start)
	b.logger.Debug("index updated",
		zap.Int("added", len(req.Add)),
		zap.Int("deleted", len(resp.Deleted)),
		zap.Int("missing", len(resp.Missing)),
		zap.Duration("took", resp.Took),
	)
	return resp, nil
}

// matchingIDs pages through every document matching q. "*" and "" match everything;
// anything else is parsed as a Bleve query string.
func (b *BleveEngine) matchingIDs(ctx context.Context, q string) ([]string, error) {
	var bq blevequery.Query
	if query.IsMatchAll(q) {
		bq = bleve.NewMatchAllQuery()
	} else {
		bq = bleve.NewQueryStringQuery(q)
	}
	var ids []string
	for from := 0; ; from += deletePageSize {
		sr := bleve.NewSearchRequestOptions(bq, deletePageSize, from, false)
		res, err := b.index.SearchInContext(ctx, sr)
		if err != nil {
			return nil, classify(err)
		}
		for _, h := range res.Hits {
			ids = append(ids, h.ID)
		}
		if len(res.Hits) < deletePageSize {
			return ids, nil
		}
	}
}

// Ping checks that the index is open and readable.
func (b *BleveEngine) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return classify(err)
	}
	if _, err := b.index.DocCount(); err != nil {
		return classify(err)
	}
	return nil
}

// DocCount returns the total number of documents in the index.
func (b *BleveEngine) DocCount() (uint64, error) {
	n, err := b.index.DocCount()
	if err != nil {
		return 0, classify(err)
	}
	return n, nil
}

// Close closes the Bleve index.
func (b *BleveEngine) Close() error {
	return b.index.Close()
}

func classify(err error) error {
	if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrQuery) {
		return err
	}
	if errors.Is(err, bleve.ErrorIndexClosed) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return fmt.Errorf("%w: %w", ErrQuery, err)
}
