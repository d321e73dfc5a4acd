package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shuvoedward/hadith_search/internal/data"
	"shuvoedward/hadith_search/internal/service"
)

var (
	searchLanguage   string
	searchPage       int
	searchLimit      int
	searchCollection string
	searchGrade      string
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search hadiths",
	Long: `Runs the full search pipeline: hadith number lookup for numeric queries,
otherwise trigram, keyword and substring tiers with keyboard layout
correction for Russian.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchLanguage, "language", "l", service.DefaultLanguage, "translation language code")
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", service.DefaultPage, "page number")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", service.DefaultLimit, "results per page")
	searchCmd.Flags().StringVar(&searchCollection, "collection", "", "collection slug or name")
	searchCmd.Flags().StringVar(&searchGrade, "grade", "", "authenticity grade")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output the page as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchPage < 1 {
		return fmt.Errorf("page must be at least 1")
	}
	if searchLimit < 1 || searchLimit > service.MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d", service.MaxLimit)
	}

	logger := newLogger(cmd)

	models, closeModels, err := openModels()
	if err != nil {
		return err
	}
	defer closeModels()

	resultCache, closeCache, err := openCache(logger)
	if err != nil {
		return err
	}
	defer closeCache()

	searchService := service.NewSearchService(models.Hadiths, resultCache, service.SearchConfig{
		FuzzyEnabled: cfg.fuzzy,
		CacheTTL:     cfg.cacheTTL,
	}, logger)

	page, err := searchService.Search(cmd.Context(), service.SearchInput{
		Query:      args[0],
		Language:   searchLanguage,
		Page:       searchPage,
		Limit:      searchLimit,
		Collection: searchCollection,
		Grade:      searchGrade,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputJSON(cmd, page)
	}
	return outputSearchTable(cmd, page)
}

func outputJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(b))
	return nil
}

func outputSearchTable(cmd *cobra.Command, page *service.SearchPage) error {
	if page.Metadata != nil && page.Metadata.CorrectedFrom != "" {
		cmd.Printf("Corrected keyboard layout from %q\n\n", page.Metadata.CorrectedFrom)
	}

	if len(page.Data) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	p := page.Pagination
	cmd.Printf("Page %d of %d (%d results)\n\n", p.Page, p.TotalPages, p.Total)

	for i, r := range page.Data {
		cmd.Printf("  [%d] %s %d:%d", (p.Page-1)*p.Limit+i+1, r.Collection, r.BookNumber, r.HadithNumber)
		if r.Relevance != nil {
			cmd.Printf(" (%.2f)", *r.Relevance)
		}
		cmd.Println()
		cmd.Printf("      %s\n\n", snippet(r))
	}

	return nil
}

func snippet(r *data.SearchResult) string {
	text := r.ArabicText
	if r.Translation != nil {
		text = r.Translation.Text
	}

	text = strings.Join(strings.Fields(text), " ")
	if runes := []rune(text); len(runes) > 120 {
		return string(runes[:117]) + "..."
	}
	return text
}
