package fts

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driven"
)

// Words at least this long also match by prefix of all but their last
// letter, which stands in for edit-distance fuzziness.
const fuzzyPrefixMin = 5

// Column order of works_fts, which bm25 weights follow.
var ftsColumns = []driven.Field{
	driven.FieldTitle,
	driven.FieldAuthor,
	driven.FieldContent,
	driven.FieldCanonical,
}

type facetKey struct {
	expr   string
	filter string
}

var facetKeys = map[string]facetKey{
	domain.FacetCollection: {expr: "m.collection", filter: "m.collection != ''"},
	domain.FacetGenre:      {expr: "m.genre", filter: "m.genre != ''"},
	domain.FacetDecade: {
		expr:   "CAST((m.publication_year / 10) * 10 AS TEXT) || 's'",
		filter: "m.publication_year IS NOT NULL",
	},
}

// compiled is a SearchQuery translated to SQL fragments.
type compiled struct {
	from       string
	conditions []string
	args       []any
	score      string
	matched    bool
}

func compile(q driven.SearchQuery) compiled {
	c := compiled{from: "FROM indexed_works m", score: "0.0"}

	if match := matchExpression(q.Clauses, false); match != "" {
		c.from = "FROM works_fts JOIN indexed_works m ON m.work_id = works_fts.rowid"
		c.conditions = append(c.conditions, "works_fts MATCH ?")
		c.args = append(c.args, match)
		c.score = "-bm25(works_fts, " + weights(q.Boosts) + ")"
		c.matched = true
	}
	if exclude := matchExpression(q.Clauses, true); exclude != "" {
		c.conditions = append(c.conditions,
			"m.work_id NOT IN (SELECT rowid FROM works_fts WHERE works_fts MATCH ?)")
		c.args = append(c.args, exclude)
	}

	f := q.Filters
	if f.YearFrom != nil {
		c.conditions = append(c.conditions, "m.publication_year >= ?")
		c.args = append(c.args, *f.YearFrom)
	}
	if f.YearTo != nil {
		c.conditions = append(c.conditions, "m.publication_year <= ?")
		c.args = append(c.args, *f.YearTo)
	}
	c.in("m.collection", f.Collections)
	c.in("m.genre", f.Genres)
	c.in("m.language", f.Languages)

	return c
}

func (c *compiled) in(column string, values []string) {
	if len(values) == 0 {
		return
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	c.conditions = append(c.conditions, column+" IN ("+marks+")")
	for _, v := range values {
		c.args = append(c.args, v)
	}
}

// where renders the WHERE clause with any extra conditions appended.
func (c compiled) where(extra ...string) string {
	all := append(append([]string{}, c.conditions...), extra...)
	if len(all) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(all, " AND ")
}

func (c compiled) order(sort domain.SortOrder) string {
	switch sort {
	case domain.SortYearAsc:
		return "m.publication_year IS NULL, m.publication_year ASC, m.work_id"
	case domain.SortYearDesc:
		return "m.publication_year IS NULL, m.publication_year DESC, m.work_id"
	default:
		if c.matched {
			return "score DESC, m.work_id"
		}
		return "m.work_id"
	}
}

// snippets selects the highlighted title and a content snippet, or two
// empty strings when there is nothing to highlight.
func (c compiled) snippets(enabled bool) string {
	if !enabled || !c.matched {
		return "'', ''"
	}
	return "highlight(works_fts, 0, '" + driven.HighlightOpen + "', '" + driven.HighlightClose + "'), " +
		"snippet(works_fts, 2, '" + driven.HighlightOpen + "', '" + driven.HighlightClose + "', '…', 16)"
}

func weights(boosts map[driven.Field]float64) string {
	parts := make([]string, len(ftsColumns))
	for i, f := range ftsColumns {
		w, ok := boosts[f]
		if !ok {
			w = driven.DefaultBoosts[f]
		}
		parts[i] = strconv.FormatFloat(w, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}

// matchExpression builds an FTS5 query from the positive clauses (AND)
// or, when excluded is set, from the negative clauses (OR).
func matchExpression(clauses []driven.Clause, excluded bool) string {
	var groups []string
	for _, cl := range clauses {
		if cl.Exclude != excluded {
			continue
		}
		if g := clauseGroup(cl); g != "" {
			groups = append(groups, g)
		}
	}
	op := " AND "
	if excluded {
		op = " OR "
	}
	return strings.Join(groups, op)
}

// clauseGroup renders one clause as an OR of its spelling alternatives:
// the term as typed, its canonical form, and for long words a prefix.
func clauseGroup(cl driven.Clause) string {
	term := strings.TrimSpace(cl.Term)
	if term == "" {
		return ""
	}

	seen := map[string]bool{}
	var alts []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			alts = append(alts, s)
		}
	}

	add(quote(term))
	add(quote(strings.TrimSpace(cl.Canonical)))
	if cl.Fuzzy && !cl.Phrase {
		for _, w := range []string{term, strings.TrimSpace(cl.Canonical)} {
			if utf8.RuneCountInString(w) >= fuzzyPrefixMin && !strings.ContainsAny(w, " \t") {
				r := []rune(w)
				add(quote(string(r[:len(r)-1])) + "*")
			}
		}
	}

	return "(" + strings.Join(alts, " OR ") + ")"
}

// quote makes s an FTS5 string, which the tokenizer splits into a phrase.
func quote(s string) string {
	if s == "" {
		return ""
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// highlights keeps the title highlight when it marks a match, and the
// content snippet when there is one.
func highlights(title, snippet string) []string {
	var out []string
	if strings.Contains(title, driven.HighlightOpen) {
		out = append(out, title)
	}
	if strings.TrimSpace(snippet) != "" {
		out = append(out, snippet)
	}
	return out
}
