package driven

import (
	"context"

	"github.com/folio-archive/folio/internal/core/domain"
)

// Markers a SearchIndex wraps around matched terms in highlights and
// snippets.
const (
	HighlightOpen  = "<b>"
	HighlightClose = "</b>"
)

// SearchIndex provides full-text indexing and querying of works.
// Backed by SQLite FTS5.
type SearchIndex interface {
	// Upsert adds or replaces the document keyed by workID.
	Upsert(ctx context.Context, workID int64, doc IndexDocument) error

	// Delete removes a work from the index.
	Delete(ctx context.Context, workID int64) error

	// Query runs a structured query.
	Query(ctx context.Context, q SearchQuery) (*SearchResponse, error)

	// Count returns the number of indexed works.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// IndexDocument is the per-work payload submitted to the index.
type IndexDocument struct {
	SourceIdentifier string
	Title            string
	Author           string
	Content          string
	Canonical        string
	PublicationYear  *int
	Collection       string
	Genre            string
	Language         string
}

// Field names a weighted text field of the index.
type Field string

const (
	FieldTitle     Field = "title"
	FieldAuthor    Field = "author"
	FieldContent   Field = "content"
	FieldCanonical Field = "canonical"
)

// DefaultBoosts weights title over author over content. The canonical
// field catches spelling variants at a lower weight.
var DefaultBoosts = map[Field]float64{
	FieldTitle:     2.0,
	FieldAuthor:    1.5,
	FieldContent:   1.0,
	FieldCanonical: 0.5,
}

// Clause is one parsed element of a free-text query.
type Clause struct {
	// Term is the word or phrase as typed, lower-cased.
	Term string

	// Canonical is Term in normalised spelling. Equal to Term when the
	// normaliser changes nothing.
	Canonical string

	// Phrase requires the words of Term to appear adjacently.
	Phrase bool

	// Exclude removes works matching the clause.
	Exclude bool

	// Fuzzy allows approximate matches for the clause.
	Fuzzy bool
}

// SearchQuery is the structured form of a search request.
type SearchQuery struct {
	Clauses []Clause
	Boosts  map[Field]float64
	Filters domain.SearchFilters
	Sort    domain.SortOrder
	From    int
	Size    int

	// Facets lists the aggregations to compute over the whole match set.
	Facets []string

	// Highlight requests snippet fragments for each hit.
	Highlight bool
}

// HasTerms reports whether the query contains any positive clause.
func (q SearchQuery) HasTerms() bool {
	for _, c := range q.Clauses {
		if !c.Exclude {
			return true
		}
	}
	return false
}

// SearchHit is one matching work.
type SearchHit struct {
	WorkID          int64
	Title           string
	Author          string
	PublicationYear *int
	Collection      string
	Genre           string
	Score           float64
	Highlights      []string
}

// SearchResponse is the raw result of a structured query.
type SearchResponse struct {
	Hits   []SearchHit
	Total  int
	Facets map[string][]domain.Bucket
}
