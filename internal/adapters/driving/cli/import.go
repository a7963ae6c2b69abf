package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	corpusfile "github.com/resolva-labs/resolva-cli/internal/adapters/driven/corpus/file"
)

var importWatch bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a ticket corpus from CSV or YAML",
	Long: `Reads ticket records from a CSV or YAML file into the local corpus.

CSV files need a header row; the Ticket ID, Issue, Category, Description,
Resolved and Resolution columns are matched case-insensitively and other
columns are ignored. Rows without an ID are assigned a generated UUID.

Re-importing a file updates existing tickets in place without disturbing
corpus order. Run 'resolva build' afterwards to refresh the index.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importWatch, "watch", false, "keep running and re-import when the file changes")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	if ticketStore == nil {
		if err := initTicketStore(); err != nil {
			return err
		}
	}

	count, err := importFile(cmd.Context(), path)
	if err != nil {
		return err
	}
	cmd.Printf("Imported %d tickets from %s\n", count, path)

	if !importWatch {
		return nil
	}
	return watchAndReimport(cmd, path)
}

// importFile reads the corpus file and upserts every ticket.
func importFile(ctx context.Context, path string) (int, error) {
	tickets, err := corpusfile.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading corpus: %w", err)
	}

	for _, ticket := range tickets {
		if err := ticketStore.Put(ctx, ticket); err != nil {
			return 0, fmt.Errorf("storing ticket %s: %w", ticket.ID, err)
		}
	}
	return len(tickets), nil
}

// watchAndReimport blocks, re-importing the corpus file whenever it
// changes, until the command context is cancelled.
func watchAndReimport(cmd *cobra.Command, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors often replace the
	// file on save, which would drop a watch registered on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	cmd.Printf("Watching %s for changes (Ctrl+C to stop)\n", path)

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			count, err := importFile(cmd.Context(), path)
			if err != nil {
				cmd.PrintErrf("Re-import failed: %v\n", err)
				continue
			}
			cmd.Printf("Re-imported %d tickets from %s\n", count, path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.PrintErrf("Watch error: %v\n", err)
		}
	}
}
