package cli

import (
	"github.com/spf13/cobra"

	configfile "github.com/resolva-labs/resolva-cli/internal/adapters/driven/config/file"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Manage drafting prompt templates",
	Long: `The drafting prompts live as editable text files under
~/.resolva/prompts. Edit them to change how responses are written;
'prompts reset' restores the defaults.`,
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompt templates",
	Args:  cobra.NoArgs,
	RunE:  runPromptsList,
}

var promptsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the prompts directory",
	Args:  cobra.NoArgs,
	RunE:  runPromptsPath,
}

var promptsResetCmd = &cobra.Command{
	Use:   "reset [name]",
	Short: "Restore prompts to their defaults",
	Long: `Restore the named prompt to its embedded default, or every prompt
when no name is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPromptsReset,
}

func init() {
	promptsCmd.AddCommand(promptsListCmd)
	promptsCmd.AddCommand(promptsPathCmd)
	promptsCmd.AddCommand(promptsResetCmd)
	rootCmd.AddCommand(promptsCmd)
}

func runPromptsList(cmd *cobra.Command, _ []string) error {
	if err := initPromptStore(); err != nil {
		return err
	}

	for _, name := range configfile.Names() {
		status := "default"
		if promptStore.Customised(name) {
			status = "customised"
		}
		cmd.Printf("%-22s %s\n", name, status)
	}
	return nil
}

func runPromptsPath(cmd *cobra.Command, _ []string) error {
	if err := initPromptStore(); err != nil {
		return err
	}

	cmd.Println(promptStore.Dir())
	return nil
}

func runPromptsReset(cmd *cobra.Command, args []string) error {
	if err := initPromptStore(); err != nil {
		return err
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	if err := promptStore.Reset(name); err != nil {
		return err
	}

	if name == "" {
		cmd.Println("All prompts restored to defaults.")
	} else {
		cmd.Printf("Prompt %s restored to its default.\n", name)
	}
	return nil
}
