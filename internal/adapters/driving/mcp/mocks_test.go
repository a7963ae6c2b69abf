package mcp

import (
	"context"

	"github.com/resolva-labs/resolva-cli/internal/core/domain"
)

// mockMatcherService is a mock implementation of driving.MatcherService.
type mockMatcherService struct {
	matches  []domain.Match
	err      error
	ready    bool
	lastOpts domain.FindOptions
}

func (m *mockMatcherService) BuildFromCorpus(_ context.Context) error {
	return m.err
}

func (m *mockMatcherService) LoadIndex(_ context.Context) error {
	return m.err
}

func (m *mockMatcherService) FindSimilar(
	_ context.Context,
	_ domain.MatchQuery,
	opts domain.FindOptions,
) ([]domain.Match, error) {
	m.lastOpts = opts
	return m.matches, m.err
}

func (m *mockMatcherService) Ready() bool {
	return m.ready
}

// mockResponderService is a mock implementation of driving.ResponderService.
type mockResponderService struct {
	draft       string
	err         error
	lastQuery   domain.MatchQuery
	lastMatches []domain.Match
}

func (m *mockResponderService) DraftResponse(
	_ context.Context,
	query domain.MatchQuery,
	matches []domain.Match,
) (string, error) {
	m.lastQuery = query
	m.lastMatches = matches
	return m.draft, m.err
}

// mockTicketStore is a mock implementation of driven.TicketStore.
type mockTicketStore struct {
	tickets []domain.Ticket
	ticket  *domain.Ticket
	err     error
}

func (m *mockTicketStore) Put(_ context.Context, _ domain.Ticket) error {
	return m.err
}

func (m *mockTicketStore) Get(_ context.Context, _ string) (*domain.Ticket, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.ticket == nil {
		return nil, domain.ErrNotFound
	}
	return m.ticket, nil
}

func (m *mockTicketStore) ListInOrder(_ context.Context) ([]domain.Ticket, error) {
	return m.tickets, m.err
}

func (m *mockTicketStore) Count(_ context.Context) (int, error) {
	return len(m.tickets), m.err
}

func (m *mockTicketStore) DeleteAll(_ context.Context) error {
	return m.err
}

func (m *mockTicketStore) Close() error {
	return nil
}
