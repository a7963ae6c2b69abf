package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/resolva-labs/resolva-cli/internal/core/domain"
)

var (
	respondCategory    string
	respondDescription string
	respondJSON        bool
)

var respondCmd = &cobra.Command{
	Use:   "respond <issue>",
	Short: "Draft a response for a new ticket",
	Long: `Matches the new ticket against the corpus and drafts a candidate
response from the evidence. Resolved matches contribute their fixes,
unresolved matches shape a holding reply, and with no matches at all the
draft falls back to a short, conservative suggestion.

Drafting needs an LLM provider; matching alone does not.`,
	Args: cobra.ExactArgs(1),
	RunE: runRespond,
}

func init() {
	respondCmd.Flags().StringVar(&respondCategory, "category", "", "ticket category")
	respondCmd.Flags().StringVar(&respondDescription, "description", "", "full problem description")
	respondCmd.Flags().BoolVar(&respondJSON, "json", false, "output draft and matches as JSON")
	rootCmd.AddCommand(respondCmd)
}

func runRespond(cmd *cobra.Command, args []string) error {
	if matcherService == nil {
		if err := initMatchingStack(); err != nil {
			return err
		}
	}
	if responderService == nil {
		if aiServices != nil && len(aiServices.Warnings) > 0 {
			return fmt.Errorf("drafting unavailable: %s", aiServices.Warnings[0])
		}
		return errors.New("responder service not configured. Run 'resolva config set llm.provider ollama' to enable drafting")
	}

	query := domain.MatchQuery{
		Issue:       args[0],
		Category:    respondCategory,
		Description: respondDescription,
	}

	if err := ensureIndexLoaded(cmd.Context()); err != nil {
		return err
	}

	matches, err := matcherService.FindSimilar(cmd.Context(), query, domain.FindOptions{})
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	draft, err := responderService.DraftResponse(cmd.Context(), query, matches)
	if err != nil {
		return fmt.Errorf("drafting failed: %w", err)
	}

	if respondJSON {
		out := struct {
			Draft   string
			Matches []domain.Match
		}{Draft: draft, Matches: matches}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding response: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if err := outputMatchTable(cmd, matches); err != nil {
		return err
	}
	cmd.Println("Draft response:")
	cmd.Println()
	cmd.Println(draft)
	return nil
}
