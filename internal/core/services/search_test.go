package services

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-archive/folio/internal/adapters/driven/search/fts"
	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driven"
	"github.com/folio-archive/folio/internal/logger"
	"github.com/folio-archive/folio/internal/normalisers/orthography"
)

func TestParseQuery(t *testing.T) {
	svc := NewSearchService(nil, orthography.New(), 0)

	tests := []struct {
		name  string
		query string
		want  []driven.Clause
	}{
		{"empty", "   ", nil},
		{"words", "Loue Hamlet", []driven.Clause{
			{Term: "loue", Canonical: "love", Fuzzy: true},
			{Term: "hamlet", Canonical: "hamlet", Fuzzy: true},
		}},
		{"phrase", `"to  be or" not`, []driven.Clause{
			{Term: "to be or", Canonical: "to be or", Phrase: true},
			{Term: "not", Canonical: "not", Fuzzy: true},
		}},
		{"exclusion", "sermon -Tragedie", []driven.Clause{
			{Term: "sermon", Canonical: "sermon", Fuzzy: true},
			{Term: "tragedie", Canonical: "tragedy", Exclude: true},
		}},
		{"excluded phrase", `-"long s"`, []driven.Clause{
			{Term: "long s", Canonical: "long s", Phrase: true, Exclude: true},
		}},
		{"unterminated quote", `"vnto the`, []driven.Clause{
			{Term: "vnto the", Canonical: "unto the", Phrase: true},
		}},
		{"punctuation trimmed", "king, (queen)", []driven.Clause{
			{Term: "king", Canonical: "king", Fuzzy: true},
			{Term: "queen", Canonical: "queen", Fuzzy: true},
		}},
		{"lone dash", "a - b", []driven.Clause{
			{Term: "a", Canonical: "a", Fuzzy: true},
			{Term: "b", Canonical: "b", Fuzzy: true},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.ParseQuery(tt.query))
		})
	}
}

func TestCompile(t *testing.T) {
	svc := NewSearchService(nil, orthography.New(), 0)
	req := domain.SearchRequest{
		Query:    "honour",
		Filters:  domain.SearchFilters{YearFrom: domain.IntPtr(1600)},
		Sort:     domain.SortYearDesc,
		Page:     3,
		PageSize: 10,
	}.Normalised()

	q := svc.Compile(req)

	assert.Equal(t, 20, q.From)
	assert.Equal(t, 10, q.Size)
	assert.Equal(t, domain.SortYearDesc, q.Sort)
	assert.Equal(t, driven.DefaultBoosts, q.Boosts)
	assert.Equal(t, 1600, *q.Filters.YearFrom)
	assert.ElementsMatch(t, []string{"collection", "genre", "decade"}, q.Facets)
	assert.True(t, q.Highlight)
	require.Len(t, q.Clauses, 1)
	assert.Equal(t, "honor", q.Clauses[0].Canonical)
}

func TestSearch_MapsHits(t *testing.T) {
	index := newMockIndex()
	index.resp = &driven.SearchResponse{
		Total: 45,
		Hits: []driven.SearchHit{
			{WorkID: 3, Title: "Hamlet", Author: "Shakespeare", Score: 2.5,
				PublicationYear: domain.IntPtr(1623), Collection: domain.CollectionFolio,
				Highlights: []string{"<b>Hamlet</b>"}},
		},
		Facets: map[string][]domain.Bucket{"collection": {{Key: domain.CollectionFolio, Count: 45}}},
	}
	svc := NewSearchService(index, orthography.New(), 0)

	page := svc.Search(context.Background(), domain.SearchRequest{Query: "hamlet", Page: 2})

	assert.Equal(t, 45, page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, domain.DefaultPageSize, page.PageSize)
	require.Len(t, page.Results, 1)
	assert.Equal(t, int64(3), page.Results[0].WorkID)
	assert.Equal(t, 1623, *page.Results[0].PublicationYear)
	assert.Equal(t, []string{"<b>Hamlet</b>"}, page.Results[0].Highlights)
	assert.Equal(t, 45, page.Aggregations["collection"][0].Count)

	require.Len(t, index.queries, 1)
	assert.Equal(t, 20, index.queries[0].From)
}

func TestSearch_PagingClamped(t *testing.T) {
	index := newMockIndex()
	svc := NewSearchService(index, nil, 0)

	page := svc.Search(context.Background(), domain.SearchRequest{Query: "x", Page: -4, PageSize: 1000})

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, domain.MaxPageSize, page.PageSize)
	assert.Equal(t, 0, index.queries[0].From)
	assert.Equal(t, domain.MaxPageSize, index.queries[0].Size)
}

func TestSearch_ConfiguredPageSize(t *testing.T) {
	index := newMockIndex()
	svc := NewSearchService(index, nil, 7)

	page := svc.Search(context.Background(), domain.SearchRequest{Query: "x"})
	assert.Equal(t, 7, page.PageSize)
}

func TestSearch_EmptyQuery(t *testing.T) {
	index := newMockIndex()
	index.resp = &driven.SearchResponse{Total: 2, Hits: []driven.SearchHit{{WorkID: 1}, {WorkID: 2}}}
	svc := NewSearchService(index, nil, 0)
	ctx := context.Background()

	page := svc.Search(ctx, domain.SearchRequest{Query: "  "})
	assert.Empty(t, page.Results)
	assert.NotNil(t, page.Results)
	assert.Zero(t, page.Total)
	assert.Empty(t, index.queries)

	page = svc.Search(ctx, domain.SearchRequest{Query: "-sermon"})
	assert.Zero(t, page.Total)
	assert.Empty(t, index.queries)

	page = svc.Search(ctx, domain.SearchRequest{
		Filters: domain.SearchFilters{Collections: []string{domain.CollectionFolio}},
	})
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Results, 2)
}

func TestSearch_DegradesToEmptyPage(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	defer func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	}()

	index := newMockIndex()
	index.queryErr = domain.ErrSearchUnavailable
	svc := NewSearchService(index, nil, 0)

	page := svc.Search(context.Background(), domain.SearchRequest{Query: "hamlet"})

	assert.Equal(t, []domain.SearchResult{}, page.Results)
	assert.Zero(t, page.Total)
	assert.Zero(t, page.Pages)
	assert.Contains(t, buf.String(), "[WARN] Search failed")
}

func TestSearch_NoIndex(t *testing.T) {
	svc := NewSearchService(nil, nil, 0)

	page := svc.Search(context.Background(), domain.SearchRequest{Query: "hamlet"})
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Results)
}

func TestSearch_ClosedIndex(t *testing.T) {
	index, err := fts.NewIndex(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, index.Close())

	svc := NewSearchService(index, orthography.New(), 0)

	assert.NotPanics(t, func() {
		page := svc.Search(context.Background(), domain.SearchRequest{Query: "hamlet"})
		assert.Zero(t, page.Total)
		assert.Zero(t, page.Pages)
		assert.Empty(t, page.Results)
	})
}

func TestSearch_VariantSpellingEndToEnd(t *testing.T) {
	index, err := fts.NewIndex(t.TempDir())
	require.NoError(t, err)
	defer index.Close()
	ctx := context.Background()
	n := orthography.New()

	content := "Of the loue of God and of our neighbour"
	require.NoError(t, index.Upsert(ctx, 1, driven.IndexDocument{
		Title:      "A Treatise",
		Content:    content,
		Canonical:  n.Normalise("A Treatise " + content),
		Collection: domain.CollectionEEBO,
	}))

	svc := NewSearchService(index, n, 0)
	page := svc.Search(ctx, domain.SearchRequest{Query: "love"})

	require.Equal(t, 1, page.Total)
	assert.Equal(t, int64(1), page.Results[0].WorkID)
	assert.Equal(t, []domain.Bucket{{Key: domain.CollectionEEBO, Count: 1}}, page.Aggregations[domain.FacetCollection])
}
