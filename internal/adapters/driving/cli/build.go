package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the vector index over the imported corpus",
	Long: `Embeds every stored ticket and builds the similarity index, then
persists it for later runs. Building needs the embedding provider to be
reachable and must be re-run after importing new tickets.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	if matcherService == nil {
		if err := initMatchingStack(); err != nil {
			return err
		}
	}
	if matcherService == nil {
		return errors.New("matcher service not configured")
	}

	start := time.Now()
	if err := matcherService.BuildFromCorpus(cmd.Context()); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	cmd.Printf("Index built in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
