package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/resolva-labs/resolva-cli/internal/core/domain"
)

var (
	matchCategory    string
	matchDescription string
	matchK           int
	matchThreshold   float64
	matchJSON        bool
)

var matchCmd = &cobra.Command{
	Use:   "match <issue>",
	Short: "Find tickets similar to a new issue",
	Long: `Finds the most semantically similar recorded tickets for a new issue
and ranks them so tickets with a known resolution come first.

The index comes from the last 'resolva build'. Pass --category and
--description to sharpen the comparison text:

  resolva match "Cannot log in after password reset"
  resolva match "Export hangs" --category Reports -k 5 --threshold 0.4`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchCategory, "category", "", "ticket category")
	matchCmd.Flags().StringVar(&matchDescription, "description", "", "full problem description")
	matchCmd.Flags().IntVarP(&matchK, "k", "k", domain.DefaultMatchK, "maximum number of matches")
	matchCmd.Flags().Float64Var(&matchThreshold, "threshold", domain.DefaultSimilarityThreshold, "minimum similarity in [0,1]")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "output matches as JSON")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	if matcherService == nil {
		if err := initMatchingStack(); err != nil {
			return err
		}
	}
	if matcherService == nil {
		return errors.New("matcher service not configured")
	}

	query := domain.MatchQuery{
		Issue:       args[0],
		Category:    matchCategory,
		Description: matchDescription,
	}

	if err := ensureIndexLoaded(cmd.Context()); err != nil {
		return err
	}

	opts := domain.FindOptions{K: matchK, Threshold: matchThreshold}
	matches, err := matcherService.FindSimilar(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	if matchJSON {
		return outputMatchJSON(cmd, matches)
	}
	return outputMatchTable(cmd, matches)
}

func outputMatchJSON(cmd *cobra.Command, matches []domain.Match) error {
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding matches: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputMatchTable(cmd *cobra.Command, matches []domain.Match) error {
	if len(matches) == 0 {
		cmd.Println("No similar tickets found.")
		return nil
	}

	cmd.Printf("Found %d similar tickets:\n\n", len(matches))
	for i := range matches {
		m := &matches[i]
		status := "unresolved"
		if m.Resolved {
			status = "resolved"
		}
		cmd.Printf("  [%d] %s (%.2f, %s)\n", i+1, m.Issue, m.Similarity, status)
		if m.Category != "" {
			cmd.Printf("      Category: %s\n", m.Category)
		}
		if m.Resolution != "" {
			cmd.Printf("      Resolution: %s\n", m.Resolution)
		}
		cmd.Printf("      Ticket: %s\n", m.TicketID)
		cmd.Println()
	}
	return nil
}
