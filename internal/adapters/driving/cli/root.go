// Package cli implements the resolva command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/resolva-labs/resolva-cli/internal/adapters/driven/ai"
	configfile "github.com/resolva-labs/resolva-cli/internal/adapters/driven/config/file"
	"github.com/resolva-labs/resolva-cli/internal/adapters/driven/storage/sqlite"
	"github.com/resolva-labs/resolva-cli/internal/adapters/driven/vector/hnsw"
	"github.com/resolva-labs/resolva-cli/internal/core/ports/driven"
	"github.com/resolva-labs/resolva-cli/internal/core/ports/driving"
	"github.com/resolva-labs/resolva-cli/internal/core/services"
	"github.com/resolva-labs/resolva-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

// Services used by the commands. Wired lazily so cheap commands never
// touch the network, and swappable in tests.
var (
	configStore      driven.ConfigStore
	settingsService  driving.SettingsService
	matcherService   driving.MatcherService
	responderService driving.ResponderService
	ticketStore      driven.TicketStore

	promptStore *configfile.PromptStore
	dataStore   *sqlite.Store
	aiServices  *ai.InitResult
)

var rootCmd = &cobra.Command{
	Use:   "resolva",
	Short: "Semantic support ticket matching from your terminal",
	Long: `Resolva finds previously recorded support tickets that read like a new
one and drafts candidate responses from their resolutions.

Import a ticket corpus, build the vector index once, then match incoming
tickets against it:

  resolva import tickets.csv
  resolva build
  resolva match "Cannot log in after password reset"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable diagnostic output on stderr")
}

// Execute runs the root command. A .env file in the working directory
// supplies API keys during development; it is read, never written.
func Execute() error {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeServices()

	return rootCmd.ExecuteContext(ctx)
}

// initConfigServices wires the config store and settings service.
func initConfigServices() error {
	if settingsService != nil {
		return nil
	}

	store, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	configStore = store
	settingsService = services.NewSettingsService(store, ai.NewConfigValidator())
	return nil
}

// initTicketStore opens the corpus database under ~/.resolva/data.
func initTicketStore() error {
	if ticketStore != nil {
		return nil
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening ticket store: %w", err)
	}
	dataStore = store
	ticketStore = store.TicketStore()
	return nil
}

// initPromptStore opens the prompt template directory.
func initPromptStore() error {
	if promptStore != nil {
		return nil
	}

	store, err := configfile.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}
	promptStore = store
	return nil
}

// initMatchingStack wires everything matching and drafting need: the
// embedding provider, the vector index, the corpus and the optional LLM.
// Matching works without an LLM; drafting is then reported unavailable.
func initMatchingStack() error {
	if matcherService != nil {
		return nil
	}

	if err := initConfigServices(); err != nil {
		return err
	}
	if err := initTicketStore(); err != nil {
		return err
	}
	if err := initPromptStore(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		return err
	}
	if embedder == nil {
		return errors.New("embedding provider not configured. Run 'resolva config set embedding.provider ollama' to get started")
	}

	index, err := hnsw.New(hnsw.Config{
		Dimensions: embedder.Dimensions(),
		ModelName:  embedder.ModelName(),
	})
	if err != nil {
		return fmt.Errorf("creating vector index: %w", err)
	}

	matcherService = services.NewMatcherService(ticketStore, embedder, index, indexPath())

	result := &ai.InitResult{
		EmbeddingService: embedder,
		VectorIndex:      index,
		PromptStore:      promptStore,
	}

	llm, err := ai.CreateAndValidateLLMService(&settings.LLM)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, err.Error())
		result.DraftingDisabled = true
	case llm == nil:
		result.DraftingDisabled = true
	default:
		result.LLMService = llm
		responderService = services.NewResponderService(llm, promptStore)
	}

	for _, w := range result.Warnings {
		logger.Warn("%s", w)
	}
	aiServices = result
	return nil
}

// indexPath returns the location of the persisted vector index. An empty
// path keeps the index in memory only for this run.
func indexPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".resolva", "data", "index.gob")
}

// ensureIndexLoaded restores a persisted index when the matcher has not
// been built in this process yet.
func ensureIndexLoaded(ctx context.Context) error {
	if matcherService.Ready() {
		return nil
	}
	if err := matcherService.LoadIndex(ctx); err != nil {
		return fmt.Errorf("loading index (run 'resolva build' first): %w", err)
	}
	return nil
}

func closeServices() {
	if dataStore != nil {
		_ = dataStore.Close()
	}
	if aiServices != nil {
		aiServices.Close()
	}
}
