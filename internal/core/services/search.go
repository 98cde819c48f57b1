package services

import (
	"context"
	"strings"
	"unicode"

	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driven"
	"github.com/folio-archive/folio/internal/core/ports/driving"
	"github.com/folio-archive/folio/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// searchFacets are computed for every query.
var searchFacets = []string{domain.FacetCollection, domain.FacetGenre, domain.FacetDecade}

// SearchService translates search requests into structured index queries.
type SearchService struct {
	index      driven.SearchIndex
	normaliser driven.TextNormaliser
	pageSize   int
}

// NewSearchService creates a search service. The index may be nil, in
// which case every search returns an empty page. A non-positive pageSize
// selects domain.DefaultPageSize for requests that leave it unset.
func NewSearchService(index driven.SearchIndex, normaliser driven.TextNormaliser, pageSize int) *SearchService {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return &SearchService{
		index:      index,
		normaliser: normaliser,
		pageSize:   pageSize,
	}
}

// Search runs a request and returns one page of results. Failures are
// logged and yield an empty page.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) domain.SearchPage {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", req.Query)

	if req.PageSize <= 0 {
		req.PageSize = s.pageSize
	}
	req = req.Normalised()
	empty := domain.EmptyPage(req)

	query := s.Compile(req)
	if !query.HasTerms() && req.Filters.IsZero() {
		logger.Debug("Empty query without filters, returning no results")
		return empty
	}

	if s.index == nil {
		logger.Warn("Search unavailable: no index configured")
		return empty
	}

	resp, err := s.index.Query(ctx, query)
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return empty
	}

	page := domain.SearchPage{
		Results:      make([]domain.SearchResult, 0, len(resp.Hits)),
		Total:        resp.Total,
		Pages:        domain.PageCount(resp.Total, req.PageSize),
		Page:         req.Page,
		PageSize:     req.PageSize,
		Aggregations: resp.Facets,
	}
	for _, h := range resp.Hits {
		page.Results = append(page.Results, domain.SearchResult{
			WorkID:          h.WorkID,
			Title:           h.Title,
			Author:          h.Author,
			PublicationYear: h.PublicationYear,
			Collection:      h.Collection,
			Genre:           h.Genre,
			Score:           h.Score,
			Highlights:      h.Highlights,
		})
	}

	logger.Debug("Returning %d of %d results", len(page.Results), page.Total)
	return page
}

// Compile builds the structured query for an already normalised request.
func (s *SearchService) Compile(req domain.SearchRequest) driven.SearchQuery {
	return driven.SearchQuery{
		Clauses:   s.ParseQuery(req.Query),
		Boosts:    driven.DefaultBoosts,
		Filters:   req.Filters,
		Sort:      req.Sort,
		From:      req.Offset(),
		Size:      req.PageSize,
		Facets:    searchFacets,
		Highlight: true,
	}
}

// ParseQuery splits free text into clauses: bare words, "quoted phrases"
// and -excluded words or phrases. An unterminated quote runs to the end.
func (s *SearchService) ParseQuery(text string) []driven.Clause {
	var clauses []driven.Clause
	runes := []rune(strings.TrimSpace(text))

	for i := 0; i < len(runes); {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}

		exclude := false
		if runes[i] == '-' && i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			exclude = true
			i++
		}

		if runes[i] == '"' {
			end := i + 1
			for end < len(runes) && runes[end] != '"' {
				end++
			}
			phrase := strings.Join(strings.Fields(string(runes[i+1:end])), " ")
			if phrase != "" {
				clauses = append(clauses, s.clause(phrase, true, exclude))
			}
			i = end + 1
			continue
		}

		end := i
		for end < len(runes) && !unicode.IsSpace(runes[end]) && runes[end] != '"' {
			end++
		}
		word := strings.TrimFunc(string(runes[i:end]), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if word != "" {
			clauses = append(clauses, s.clause(word, false, exclude))
		}
		i = end
	}

	return clauses
}

func (s *SearchService) clause(term string, phrase, exclude bool) driven.Clause {
	term = strings.ToLower(term)
	canonical := term
	if s.normaliser != nil {
		canonical = s.normaliser.Normalise(term)
	}
	return driven.Clause{
		Term:      term,
		Canonical: canonical,
		Phrase:    phrase,
		Exclude:   exclude,
		Fuzzy:     !phrase && !exclude,
	}
}
