package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shuvoedward/hadith_search/internal/service"
)

var (
	suggestLanguage string
	suggestJSON     bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [query]",
	Short: "Suggest topics for a partial query",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggest,
}

var spellCmd = &cobra.Command{
	Use:   "spell [query]",
	Short: "Suggest corpus words close to a misspelled query",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpell,
}

func init() {
	for _, c := range []*cobra.Command{suggestCmd, spellCmd} {
		c.Flags().StringVarP(&suggestLanguage, "language", "l", service.DefaultLanguage, "translation language code")
		c.Flags().BoolVar(&suggestJSON, "json", false, "output as JSON")
		rootCmd.AddCommand(c)
	}
}

func newSuggestService(cmd *cobra.Command) (*service.SuggestService, func(), error) {
	models, closeModels, err := openModels()
	if err != nil {
		return nil, nil, err
	}
	return service.NewSuggestService(models.Hadiths, models.Topics, newLogger(cmd)), closeModels, nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	suggestService, closeModels, err := newSuggestService(cmd)
	if err != nil {
		return err
	}
	defer closeModels()

	suggestions, err := suggestService.Suggestions(cmd.Context(), args[0], suggestLanguage)
	if err != nil {
		return fmt.Errorf("suggestions failed: %w", err)
	}

	if suggestJSON {
		return outputJSON(cmd, suggestions)
	}
	if len(suggestions) == 0 {
		cmd.Println("No suggestions.")
		return nil
	}
	for _, s := range suggestions {
		cmd.Printf("  %-30s %-20s %.2f\n", s.Name, s.Slug, s.Score)
	}
	return nil
}

func runSpell(cmd *cobra.Command, args []string) error {
	suggestService, closeModels, err := newSuggestService(cmd)
	if err != nil {
		return err
	}
	defer closeModels()

	words, err := suggestService.Spell(cmd.Context(), args[0], suggestLanguage)
	if err != nil {
		return fmt.Errorf("spelling failed: %w", err)
	}

	if suggestJSON {
		return outputJSON(cmd, words)
	}
	if len(words) == 0 {
		cmd.Println("No suggestions.")
		return nil
	}
	for _, w := range words {
		cmd.Printf("  %-30s %.2f\n", w.Word, w.Score)
	}
	return nil
}
