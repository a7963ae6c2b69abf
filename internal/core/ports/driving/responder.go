package driving

import (
	"context"

	"github.com/resolva-labs/resolva-cli/internal/core/domain"
)

// ResponderService drafts a candidate reply for a new ticket from match
// evidence. The prompting mode follows the shape of the match list:
// resolved evidence, unresolved evidence, or no evidence at all.
type ResponderService interface {
	// DraftResponse generates a reply for the query given its ranked
	// matches. The matches may be empty; that selects the low-confidence
	// no-evidence mode. The draft always ends with the assistant
	// sign-off line.
	DraftResponse(ctx context.Context, query domain.MatchQuery, matches []domain.Match) (string, error)
}
