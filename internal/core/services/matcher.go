package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/resolva-labs/resolva-cli/internal/core/domain"
	"github.com/resolva-labs/resolva-cli/internal/core/ports/driven"
	"github.com/resolva-labs/resolva-cli/internal/core/ports/driving"
	"github.com/resolva-labs/resolva-cli/internal/logger"
)

// Ensure MatcherService implements the interface.
var _ driving.MatcherService = (*MatcherService)(nil)

// MatcherService answers similarity queries over the ticket corpus.
//
// It composes the ticket store, the embedding service and the vector
// index into the build / load / query pipeline. A matcher starts out
// uninitialised; one successful BuildFromCorpus or LoadIndex moves it
// to ready, after which FindSimilar may be called from any goroutine.
// There is no way back: rebuilding over a changed corpus takes a fresh
// instance.
type MatcherService struct {
	tickets   driven.TicketStore
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	indexPath string

	mu       sync.RWMutex
	ready    bool
	building bool
	corpus   []domain.Ticket // slot-ordered snapshot, immutable once ready
}

// NewMatcherService creates a matcher over the given collaborators.
// indexPath is where BuildFromCorpus persists the index and where
// LoadIndex restores it from; an empty path keeps the index in memory
// only.
func NewMatcherService(
	tickets driven.TicketStore,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	indexPath string,
) *MatcherService {
	return &MatcherService{
		tickets:   tickets,
		embedder:  embedder,
		index:     index,
		indexPath: indexPath,
	}
}

// Ready reports whether the matcher can serve queries.
func (s *MatcherService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// BuildFromCorpus embeds every stored ticket in slot order, builds the
// vector index over the embeddings and persists it. The corpus must not
// be empty; nothing is written when any stage fails.
func (s *MatcherService) BuildFromCorpus(ctx context.Context) error {
	if err := s.beginBuild(); err != nil {
		return err
	}
	defer s.endBuild()

	logger.Section("Index Build")

	tickets, err := s.tickets.ListInOrder(ctx)
	if err != nil {
		return fmt.Errorf("matcher: listing corpus: %w", err)
	}
	if len(tickets) == 0 {
		return fmt.Errorf("matcher: cannot build an index over an empty corpus: %w", domain.ErrInvalidArgument)
	}

	ids := make([]string, len(tickets))
	texts := make([]string, len(tickets))
	for i, t := range tickets {
		ids[i] = t.ID
		texts[i] = t.NormalisedText()
	}

	logger.Info("Embedding %d tickets with model %s", len(tickets), s.embedder.ModelName())
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("matcher: embedding corpus: %w", err)
	}

	logger.Debug("Building vector index over %d embeddings", len(vectors))
	if err := s.index.Build(ctx, ids, vectors); err != nil {
		return fmt.Errorf("matcher: building index: %w", err)
	}

	if s.indexPath != "" {
		logger.Debug("Persisting index to %s", s.indexPath)
		if err := s.index.Save(s.indexPath); err != nil {
			return fmt.Errorf("matcher: persisting index: %w", err)
		}
	}

	s.markReady(tickets)
	logger.Info("Index ready with %d tickets", len(tickets))
	return nil
}

// LoadIndex restores a previously persisted index and verifies that it
// still describes the stored corpus: same ticket IDs, same order.
func (s *MatcherService) LoadIndex(ctx context.Context) error {
	if err := s.beginBuild(); err != nil {
		return err
	}
	defer s.endBuild()

	logger.Section("Index Load")

	if s.indexPath == "" {
		return fmt.Errorf("matcher: no index path configured: %w", domain.ErrInvalidArgument)
	}
	if err := s.index.Load(s.indexPath); err != nil {
		return fmt.Errorf("matcher: loading index: %w", err)
	}

	tickets, err := s.tickets.ListInOrder(ctx)
	if err != nil {
		return fmt.Errorf("matcher: listing corpus: %w", err)
	}
	if err := verifyManifest(s.index.IDs(), tickets); err != nil {
		return err
	}

	s.markReady(tickets)
	logger.Info("Index loaded with %d tickets", len(tickets))
	return nil
}

// FindSimilar embeds the query text and returns the ranked nearest
// tickets. Options are defaulted via domain.FindOptions.WithDefaults
// and k is clamped to the corpus size.
func (s *MatcherService) FindSimilar(ctx context.Context, query domain.MatchQuery, opts domain.FindOptions) ([]domain.Match, error) {
	s.mu.RLock()
	ready := s.ready
	corpus := s.corpus
	s.mu.RUnlock()

	if !ready {
		return nil, domain.ErrNotInitialised
	}

	opts = opts.WithDefaults()
	if opts.K > len(corpus) {
		opts.K = len(corpus)
	}

	logger.Section("Similarity Query")
	logger.Debug("Query: %q (k=%d, threshold=%.2f)", query.NormalisedText(), opts.K, opts.Threshold)

	vector, err := s.embedder.Embed(ctx, query.NormalisedText())
	if err != nil {
		return nil, fmt.Errorf("matcher: embedding query: %w", err)
	}

	hits, err := s.index.Query(ctx, vector, opts.K)
	if err != nil {
		return nil, fmt.Errorf("matcher: querying index: %w", err)
	}
	logger.Debug("Index returned %d candidates", len(hits))

	matches, err := RankMatches(hits, corpus, opts.Threshold)
	if err != nil {
		return nil, err
	}

	logger.Info("Kept %d of %d candidates above threshold %.2f", len(matches), len(hits), opts.Threshold)
	return matches, nil
}

// verifyManifest checks a loaded index's slot-to-ID manifest against
// the stored corpus.
func verifyManifest(ids []string, tickets []domain.Ticket) error {
	if len(ids) != len(tickets) {
		return fmt.Errorf(
			"matcher: index holds %d tickets but the store holds %d, rebuild required: %w",
			len(ids), len(tickets), domain.ErrPersistence,
		)
	}
	for i, id := range ids {
		if tickets[i].ID != id {
			return fmt.Errorf(
				"matcher: slot %d is ticket %s in the index but %s in the store, rebuild required: %w",
				i, id, tickets[i].ID, domain.ErrPersistence,
			)
		}
	}
	return nil
}

// beginBuild moves the matcher into its one-shot initialisation phase.
func (s *MatcherService) beginBuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.building {
		return domain.ErrBuildInProgress
	}
	if s.ready {
		return fmt.Errorf("matcher: already initialised, use a fresh matcher to rebuild: %w", domain.ErrInvalidArgument)
	}
	s.building = true
	return nil
}

func (s *MatcherService) endBuild() {
	s.mu.Lock()
	s.building = false
	s.mu.Unlock()
}

func (s *MatcherService) markReady(tickets []domain.Ticket) {
	s.mu.Lock()
	s.corpus = tickets
	s.ready = true
	s.mu.Unlock()
}
