package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-archive/folio/internal/core/domain"
)

var (
	searchYearFrom    int
	searchYearTo      int
	searchCollections []string
	searchGenres      []string
	searchLanguages   []string
	searchSort        string
	searchPage        int
	searchPageSize    int
	searchJSON        bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed works",
	Long: `Searches titles, authors and full text of every indexed work.

Words match their historical spellings ("love" finds "loue"), long words
also match by prefix, "quoted phrases" match exactly and a leading minus
excludes a term. An empty query with filters browses the filtered works.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.IntVar(&searchYearFrom, "year-from", 0, "earliest publication year")
	f.IntVar(&searchYearTo, "year-to", 0, "latest publication year")
	f.StringSliceVar(&searchCollections, "collection", nil, "restrict to collections")
	f.StringSliceVar(&searchGenres, "genre", nil, "restrict to genres")
	f.StringSliceVar(&searchLanguages, "language", nil, "restrict to language codes")
	f.StringVar(&searchSort, "sort", string(domain.SortRelevance), "relevance, year_asc or year_desc")
	f.IntVar(&searchPage, "page", 1, "result page")
	f.IntVarP(&searchPageSize, "page-size", "n", 0, "results per page (0 = configured default)")
	f.BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	req := domain.SearchRequest{
		Sort:     domain.ParseSortOrder(searchSort),
		Page:     searchPage,
		PageSize: searchPageSize,
		Filters: domain.SearchFilters{
			Collections: searchCollections,
			Genres:      searchGenres,
			Languages:   searchLanguages,
		},
	}
	if len(args) > 0 {
		req.Query = args[0]
	}
	if cmd.Flags().Changed("year-from") {
		req.Filters.YearFrom = domain.IntPtr(searchYearFrom)
	}
	if cmd.Flags().Changed("year-to") {
		req.Filters.YearTo = domain.IntPtr(searchYearTo)
	}

	page := searchService.Search(cmd.Context(), req)

	if searchJSON {
		return outputSearchJSON(cmd, page)
	}
	outputSearchTable(cmd, page)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, page domain.SearchPage) error {
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, page domain.SearchPage) {
	if len(page.Results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println(mutedStyle.Render(fmt.Sprintf("%d works, page %d of %d", page.Total, page.Page, page.Pages)))
	cmd.Println()

	first := (page.Page-1)*page.PageSize + 1
	for i := range page.Results {
		r := &page.Results[i]

		title := r.Title
		if title == "" {
			title = fmt.Sprintf("work %d", r.WorkID)
		}
		cmd.Printf("  [%d] %s %s\n", first+i, titleStyle.Render(title), mutedStyle.Render(fmt.Sprintf("(%.2f)", r.Score)))

		var details []string
		if r.Author != "" {
			details = append(details, r.Author)
		}
		if r.PublicationYear != nil {
			details = append(details, fmt.Sprint(*r.PublicationYear))
		}
		if r.Collection != "" {
			details = append(details, r.Collection)
		}
		if r.Genre != "" {
			details = append(details, r.Genre)
		}
		if len(details) > 0 {
			cmd.Printf("      %s\n", mutedStyle.Render(strings.Join(details, " | ")))
		}
		for _, h := range r.Highlights {
			cmd.Printf("      %s\n", renderMatches(h))
		}
		cmd.Println()
	}

	outputAggregations(cmd, page.Aggregations)
}

func outputAggregations(cmd *cobra.Command, aggs map[string][]domain.Bucket) {
	names := make([]string, 0, len(aggs))
	for name, buckets := range aggs {
		if len(buckets) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		parts := make([]string, 0, len(aggs[name]))
		for _, b := range aggs[name] {
			parts = append(parts, fmt.Sprintf("%s (%d)", b.Key, b.Count))
		}
		cmd.Printf("%s %s\n", headingStyle.Render(name+":"), strings.Join(parts, ", "))
	}
}
