package domain

import "math"

// Paging defaults for the search facade.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SortOrder selects how search results are ordered.
type SortOrder string

const (
	// SortRelevance orders by descending score.
	SortRelevance SortOrder = "relevance"

	// SortYearAsc orders by ascending publication year, unknown years last.
	SortYearAsc SortOrder = "year_asc"

	// SortYearDesc orders by descending publication year, unknown years last.
	SortYearDesc SortOrder = "year_desc"
)

// ParseSortOrder maps user input to a SortOrder, defaulting to relevance.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortYearAsc, SortYearDesc:
		return SortOrder(s)
	case "date_asc":
		return SortYearAsc
	case "date_desc":
		return SortYearDesc
	default:
		return SortRelevance
	}
}

// SearchFilters restricts the result set. Nil bounds and empty sets
// impose no restriction.
type SearchFilters struct {
	YearFrom    *int
	YearTo      *int
	Collections []string
	Genres      []string
	Languages   []string
}

// IsZero reports whether no filter is set.
func (f SearchFilters) IsZero() bool {
	return f.YearFrom == nil && f.YearTo == nil &&
		len(f.Collections) == 0 && len(f.Genres) == 0 && len(f.Languages) == 0
}

// SearchRequest is the input to the search facade.
type SearchRequest struct {
	Query    string
	Filters  SearchFilters
	Sort     SortOrder
	Page     int
	PageSize int
}

// Normalised returns a copy with page and page size clamped to their
// valid ranges and the sort order defaulted.
func (r SearchRequest) Normalised() SearchRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	if r.Sort == "" {
		r.Sort = SortRelevance
	}
	return r
}

// Offset returns the zero-based index of the first result on the page.
func (r SearchRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// SearchResult is a single hit on a search page.
type SearchResult struct {
	WorkID          int64    `json:"work_id"`
	Title           string   `json:"title"`
	Author          string   `json:"author,omitempty"`
	PublicationYear *int     `json:"publication_year,omitempty"`
	Collection      string   `json:"collection,omitempty"`
	Genre           string   `json:"genre,omitempty"`
	Score           float64  `json:"score"`
	Highlights      []string `json:"highlights,omitempty"`
}

// Bucket is one facet value and the number of matches carrying it.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	Results      []SearchResult      `json:"results"`
	Total        int                 `json:"total"`
	Pages        int                 `json:"pages"`
	Page         int                 `json:"page"`
	PageSize     int                 `json:"page_size"`
	Aggregations map[string][]Bucket `json:"aggregations,omitempty"`
}

// EmptyPage returns a page with no results for the given request.
func EmptyPage(req SearchRequest) SearchPage {
	return SearchPage{
		Results:  []SearchResult{},
		Page:     req.Page,
		PageSize: req.PageSize,
	}
}

// PageCount returns ceil(total / size), or zero when either is zero.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(size)))
}

// Facet names reported in SearchPage.Aggregations.
const (
	FacetCollection = "collection"
	FacetGenre      = "genre"
	FacetDecade     = "decade"
)
