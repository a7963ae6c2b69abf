package driven

import (
	"context"

	"github.com/resolva-labs/resolva-cli/internal/core/domain"
)

// TicketStore persists the ticket corpus.
// Backed by SQLite for durable storage. Corpus row order is significant:
// it defines the slot assignment used when building the vector index, so
// implementations must preserve insertion order across restarts.
type TicketStore interface {
	// Put stores or updates a ticket. A new ticket is appended to the
	// corpus order; updating an existing one keeps its position.
	Put(ctx context.Context, ticket domain.Ticket) error

	// Get retrieves a ticket by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Ticket, error)

	// ListInOrder returns every ticket in corpus (insertion) order.
	ListInOrder(ctx context.Context) ([]domain.Ticket, error)

	// Count returns the number of stored tickets.
	Count(ctx context.Context) (int, error)

	// DeleteAll removes every ticket and resets the corpus order.
	DeleteAll(ctx context.Context) error

	// Close releases the underlying storage.
	Close() error
}
