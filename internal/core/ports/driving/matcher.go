package driving

import (
	"context"

	"github.com/resolva-labs/resolva-cli/internal/core/domain"
)

// MatcherService finds previously recorded tickets that are semantically
// similar to a new one. A matcher starts uninitialised; it must build an
// index from the corpus or load a saved one before serving queries.
type MatcherService interface {
	// BuildFromCorpus embeds every stored ticket, builds the vector
	// index over the corpus in row order and persists it. Fails with
	// domain.ErrInvalidArgument on an empty corpus and
	// domain.ErrBuildInProgress when a build is already running.
	BuildFromCorpus(ctx context.Context) error

	// LoadIndex restores a previously saved index and validates its
	// manifest against the current corpus. Fails with
	// domain.ErrPersistence when the file is missing, incompatible or
	// out of step with the stored tickets.
	LoadIndex(ctx context.Context) error

	// FindSimilar returns ranked matches for the query fields, resolved
	// tickets first, then by descending similarity. Calling it before
	// BuildFromCorpus or LoadIndex fails with domain.ErrNotInitialised.
	// Safe for concurrent callers once the matcher is ready.
	FindSimilar(ctx context.Context, query domain.MatchQuery, opts domain.FindOptions) ([]domain.Match, error)

	// Ready reports whether an index is available for queries.
	Ready() bool
}
