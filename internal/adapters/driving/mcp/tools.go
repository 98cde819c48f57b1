package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/folio-archive/folio/internal/core/domain"
)

// MetadataSearchWorks describes the search_works tool.
var MetadataSearchWorks = &mcp.Tool{
	Name: "search_works",
	Description: "Search the corpus by title, author and full text. Words also match " +
		"their historical spellings; \"quoted phrases\" match exactly and -word excludes.",
}

// MetadataRenderWork describes the render_work tool.
var MetadataRenderWork = &mcp.Tool{
	Name:        "render_work",
	Description: "Read a stored work as an outline of sections, speeches and lines",
}

// SearchWorksInput is the input schema for search_works.
type SearchWorksInput struct {
	Query       string   `json:"query,omitempty" jsonschema:"words, \"phrases\" and -exclusions; may be empty when filters are given"`
	YearFrom    *int     `json:"year_from,omitempty" jsonschema:"earliest publication year"`
	YearTo      *int     `json:"year_to,omitempty" jsonschema:"latest publication year"`
	Collections []string `json:"collections,omitempty" jsonschema:"restrict to these collections"`
	Genres      []string `json:"genres,omitempty" jsonschema:"restrict to these genres"`
	Sort        string   `json:"sort,omitempty" jsonschema:"relevance (default), year_asc or year_desc"`
	Page        int      `json:"page,omitempty" jsonschema:"result page, starting at 1"`
	PageSize    int      `json:"page_size,omitempty" jsonschema:"results per page (default 20, at most 100)"`
}

// SearchWorksOutput is the output schema for search_works.
type SearchWorksOutput struct {
	Results []WorkResult `json:"results"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	Pages   int          `json:"pages"`
}

// WorkResult is one search hit.
type WorkResult struct {
	WorkID     int64    `json:"work_id"`
	Title      string   `json:"title"`
	Author     string   `json:"author,omitempty"`
	Year       int      `json:"year,omitempty"`
	Collection string   `json:"collection,omitempty"`
	Genre      string   `json:"genre,omitempty"`
	Score      float64  `json:"score"`
	Highlights []string `json:"highlights,omitempty"`
}

// RenderWorkInput is the input schema for render_work.
type RenderWorkInput struct {
	WorkID int64 `json:"work_id" jsonschema:"the work_id from a search_works result"`
}

// RenderWorkOutput is the output schema for render_work.
type RenderWorkOutput struct {
	WorkID   int64             `json:"work_id"`
	Title    string            `json:"title"`
	Author   string            `json:"author,omitempty"`
	Year     int               `json:"year,omitempty"`
	Schema   string            `json:"schema"`
	Sections []RenderedSection `json:"sections"`
}

// RenderedSection is one section of a rendered work. Nested sections follow
// their parent with a greater depth.
type RenderedSection struct {
	Title string   `json:"title,omitempty"`
	Depth int      `json:"depth"`
	Text  []string `json:"text"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, MetadataSearchWorks, s.handleSearchWorks)
	mcp.AddTool(s.server, MetadataRenderWork, s.handleRenderWork)
}

func (s *Server) handleSearchWorks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchWorksInput,
) (*mcp.CallToolResult, SearchWorksOutput, error) {
	req := domain.SearchRequest{
		Query: input.Query,
		Filters: domain.SearchFilters{
			YearFrom:    input.YearFrom,
			YearTo:      input.YearTo,
			Collections: input.Collections,
			Genres:      input.Genres,
		},
		Sort:     domain.ParseSortOrder(input.Sort),
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	page := s.ports.Search.Search(ctx, req)

	output := SearchWorksOutput{
		Results: make([]WorkResult, len(page.Results)),
		Total:   page.Total,
		Page:    page.Page,
		Pages:   page.Pages,
	}
	for i := range page.Results {
		r := &page.Results[i]
		output.Results[i] = WorkResult{
			WorkID:     r.WorkID,
			Title:      r.Title,
			Author:     r.Author,
			Collection: r.Collection,
			Genre:      r.Genre,
			Score:      r.Score,
			Highlights: r.Highlights,
		}
		if r.PublicationYear != nil {
			output.Results[i].Year = *r.PublicationYear
		}
	}

	return nil, output, nil
}

func (s *Server) handleRenderWork(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenderWorkInput,
) (*mcp.CallToolResult, RenderWorkOutput, error) {
	if s.ports.Works == nil {
		return nil, RenderWorkOutput{}, ErrMissingWorkService
	}

	work, err := s.ports.Works.Get(ctx, input.WorkID)
	if err != nil {
		return nil, RenderWorkOutput{}, fmt.Errorf("work %d: %w", input.WorkID, err)
	}
	doc, err := s.ports.Works.Render(ctx, input.WorkID)
	if err != nil {
		return nil, RenderWorkOutput{}, fmt.Errorf("rendering work %d: %w", input.WorkID, err)
	}

	output := RenderWorkOutput{
		WorkID:   work.ID,
		Title:    work.Title,
		Author:   work.Author,
		Year:     work.Year(),
		Schema:   doc.Schema.String(),
		Sections: []RenderedSection{},
	}
	if output.Title == "" {
		output.Title = doc.Title
	}
	for i := range doc.Sections {
		output.Sections = appendSection(output.Sections, &doc.Sections[i], 0)
	}

	return nil, output, nil
}

// appendSection flattens a section tree in document order.
func appendSection(out []RenderedSection, sec *domain.Section, depth int) []RenderedSection {
	rb := RenderedSection{Title: sec.Title, Depth: depth, Text: []string{}}
	for _, b := range sec.Blocks {
		if line := blockLine(b); line != "" {
			rb.Text = append(rb.Text, line)
		}
	}
	out = append(out, rb)

	for i := range sec.Sections {
		out = appendSection(out, &sec.Sections[i], depth+1)
	}
	return out
}

func blockLine(b domain.Block) string {
	switch b.Kind {
	case domain.BlockSpeech:
		lines := make([]string, 0, len(b.Lines))
		for _, l := range b.Lines {
			lines = append(lines, l.Plain())
		}
		text := strings.Join(lines, " / ")
		if b.Speaker == "" {
			return text
		}
		return b.Speaker + ": " + text
	case domain.BlockStageDirection:
		return "[" + b.Text + "]"
	case domain.BlockLineBreak:
		return ""
	default:
		return b.Text
	}
}
