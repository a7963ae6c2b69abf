package cli

import (
	"context"

	"github.com/resolva-labs/resolva-cli/internal/adapters/driven/storage/memory"
	"github.com/resolva-labs/resolva-cli/internal/core/domain"
)

// setupTestServices installs mock services and returns a cleanup function
// that restores the previous wiring. The lazy init paths check for nil
// services, so tests never touch the network or the real data directory.
func setupTestServices() func() {
	oldConfigStore := configStore
	oldSettings := settingsService
	oldMatcher := matcherService
	oldResponder := responderService
	oldTickets := ticketStore

	configStore = memory.NewConfigStore()
	settingsService = &mockSettingsService{}
	matcherService = &mockMatcherService{
		ready: true,
		matches: []domain.Match{
			{
				TicketID:   "TKT-100",
				Similarity: 0.91,
				Issue:      "Login fails after password reset",
				Category:   "Authentication",
				Resolved:   true,
				Resolution: "Cleared the stale session cache",
			},
			{
				TicketID:   "TKT-101",
				Similarity: 0.78,
				Issue:      "Cannot sign in on mobile",
				Resolved:   false,
			},
		},
	}
	responderService = &mockResponderService{
		draft: "Hello,\n\nPlease try clearing your session cache.\n\nBest, your Smart assistant",
	}
	ticketStore = memory.NewTicketStore()

	return func() {
		configStore = oldConfigStore
		settingsService = oldSettings
		matcherService = oldMatcher
		responderService = oldResponder
		ticketStore = oldTickets
	}
}

// mockMatcherService is a mock implementation of driving.MatcherService.
type mockMatcherService struct {
	matches    []domain.Match
	buildErr   error
	loadErr    error
	findErr    error
	ready      bool
	buildCalls int
	loadCalls  int
	lastQuery  domain.MatchQuery
	lastOpts   domain.FindOptions
}

func (m *mockMatcherService) BuildFromCorpus(_ context.Context) error {
	m.buildCalls++
	return m.buildErr
}

func (m *mockMatcherService) LoadIndex(_ context.Context) error {
	m.loadCalls++
	if m.loadErr == nil {
		m.ready = true
	}
	return m.loadErr
}

func (m *mockMatcherService) FindSimilar(
	_ context.Context,
	query domain.MatchQuery,
	opts domain.FindOptions,
) ([]domain.Match, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.matches, m.findErr
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

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	embedErr error
	llmErr   error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.settings != nil {
		return m.settings, nil
	}
	return &domain.AppSettings{}, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error {
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, _ string) error {
	return nil
}

func (m *mockSettingsService) SetLLMProvider(_ domain.AIProvider, _, _ string) error {
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.AppSettings{}
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return m.embedErr
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return m.llmErr
}
