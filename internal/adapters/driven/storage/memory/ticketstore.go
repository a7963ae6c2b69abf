package memory

import (
	"context"
	"sync"

	"github.com/resolva-labs/resolva-cli/internal/core/domain"
	"github.com/resolva-labs/resolva-cli/internal/core/ports/driven"
)

// Ensure TicketStore implements the interface.
var _ driven.TicketStore = (*TicketStore)(nil)

// TicketStore is an in-memory implementation of driven.TicketStore.
// It preserves insertion order the same way the SQLite store does, so
// slot assignment behaves identically in tests.
type TicketStore struct {
	mu      sync.RWMutex
	tickets map[string]domain.Ticket
	order   []string
}

// NewTicketStore creates a new in-memory ticket store.
func NewTicketStore() *TicketStore {
	return &TicketStore{
		tickets: make(map[string]domain.Ticket),
	}
}

// Put stores or updates a ticket. New tickets append to the corpus
// order; updates keep their position.
func (s *TicketStore) Put(_ context.Context, ticket domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tickets[ticket.ID]; !exists {
		s.order = append(s.order, ticket.ID)
	}
	s.tickets[ticket.ID] = ticket
	return nil
}

// Get retrieves a ticket by ID.
func (s *TicketStore) Get(_ context.Context, id string) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ticket, nil
}

// ListInOrder returns every ticket in corpus (insertion) order.
func (s *TicketStore) ListInOrder(_ context.Context) ([]domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tickets := make([]domain.Ticket, 0, len(s.order))
	for _, id := range s.order {
		tickets = append(tickets, s.tickets[id])
	}
	return tickets, nil
}

// Count returns the number of stored tickets.
func (s *TicketStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}

// DeleteAll removes every ticket and resets the corpus order.
func (s *TicketStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = make(map[string]domain.Ticket)
	s.order = nil
	return nil
}

// Close releases resources (no-op for in-memory store).
func (s *TicketStore) Close() error {
	return nil
}
