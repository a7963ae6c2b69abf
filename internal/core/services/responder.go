package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/resolva-labs/resolva-cli/internal/core/domain"
	"github.com/resolva-labs/resolva-cli/internal/core/ports/driven"
	"github.com/resolva-labs/resolva-cli/internal/core/ports/driving"
	"github.com/resolva-labs/resolva-cli/internal/logger"
)

// Ensure ResponderService implements the interface.
var _ driving.ResponderService = (*ResponderService)(nil)

// SignOff closes every drafted response.
const SignOff = "Best, your Smart assistant"

// noSolutionFallback stands in when the model returns nothing usable
// for the no-evidence suggestion.
const noSolutionFallback = "No immediate solution available."

// Sampling parameters per drafting mode. Evidence drafts get room to
// write; the no-evidence suggestion is kept short and near-greedy so
// the model only answers when it is confident.
const (
	draftMaxTokens   = 1024
	draftTemperature = 0.3
	draftTopP        = 0.95

	suggestionMaxTokens   = 50
	suggestionTemperature = 0.1
	suggestionTopP        = 0.1
)

// Built-in prompt templates, used when no prompt store is wired or a
// template goes missing. The evidence templates take the match count
// and the evidence JSON; the no-evidence template runs as a bare
// system prompt.
const (
	resolvedEvidencePrompt = `You are an AI assistant that helps human agents respond to support tickets.

I will provide you with a new support ticket and details from %d similar resolved tickets from our database.

Your task is to:
1. Analyse the new ticket and the resolved similar tickets
2. Create a coherent response that addresses the new ticket's issue
3. Include the most relevant solution from the resolved tickets
4. End the message by saying: Best, your Smart assistant

Here are the similar resolved tickets:
%s

Please create a response that the agent can use to address the new ticket. Be concise but comprehensive.`

	unresolvedEvidencePrompt = `You are an AI assistant that helps human agents respond to support tickets.

I will provide you with a new support ticket and details from %d similar tickets from our database, but none of these similar tickets have been resolved.

Your task is to:
1. Analyse the new ticket and the similar unresolved tickets
2. Create a coherent response that acknowledges the ongoing nature of this issue
3. Share details about the similar tickets and what approaches did not work
4. Suggest potential next steps based on the history of attempts
5. Format your response to be ready for a human agent to review and send
6. End the message by saying: Best, your Smart assistant

Here are the similar unresolved tickets:
%s

Please create a response that the agent can use to address the new ticket, acknowledging that we do not have a proven solution yet.`

	noEvidencePrompt = `You are a technical support assistant. Provide a very brief solution suggestion (max 15 words) for the following issue ONLY if you are highly confident. If not confident, respond with 'No immediate solution available.'`
)

// ResponderService drafts agent-ready replies to new tickets from the
// matches the matcher found. The prompting mode follows the evidence:
// resolved matches are quoted for their fixes, unresolved matches are
// presented as ongoing history, and with no matches at all the model is
// only allowed a short, conservative suggestion.
type ResponderService struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewResponderService creates a responder. llm is required for
// drafting; prompts may be nil, in which case the built-in templates
// are used.
func NewResponderService(llm driven.LLMService, prompts driven.PromptStore) *ResponderService {
	return &ResponderService{
		llm:     llm,
		prompts: prompts,
	}
}

// DraftResponse generates a reply to the queried ticket grounded in the
// given matches. The draft always ends with the standard sign-off.
func (s *ResponderService) DraftResponse(ctx context.Context, query domain.MatchQuery, matches []domain.Match) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("responder: no LLM service configured: %w", domain.ErrNotConfigured)
	}

	queryJSON, err := marshalQuery(query)
	if err != nil {
		return "", fmt.Errorf("responder: encoding ticket: %w", err)
	}

	logger.Section("Response Drafting")

	if len(matches) == 0 {
		return s.draftSuggestion(ctx, queryJSON)
	}
	return s.draftFromEvidence(ctx, queryJSON, matches)
}

// draftSuggestion handles the no-evidence mode: a short hint generated
// with near-greedy sampling, wrapped in a fixed reply.
func (s *ResponderService) draftSuggestion(ctx context.Context, queryJSON string) (string, error) {
	logger.Debug("No matches to draw on, asking %s for a conservative suggestion", s.llm.ModelName())

	messages := []driven.ChatMessage{
		{Role: "system", Content: s.loadPrompt(driven.PromptNoEvidence, noEvidencePrompt)},
		{Role: "user", Content: "Issue: " + queryJSON},
	}
	opts := driven.ChatOptions{
		MaxTokens:   suggestionMaxTokens,
		Temperature: suggestionTemperature,
		TopP:        suggestionTopP,
	}

	suggestion, err := s.llm.Chat(ctx, messages, opts)
	if err != nil {
		return "", fmt.Errorf("responder: generating suggestion: %w", err)
	}
	suggestion = strings.TrimSpace(suggestion)
	if suggestion == "" {
		suggestion = noSolutionFallback
	}

	return fmt.Sprintf("No matching tickets found in the database.\n\nSuggested direction: %s\n\n%s", suggestion, SignOff), nil
}

// draftFromEvidence handles both evidence modes. When any match is
// resolved only the resolved matches are quoted; otherwise the whole
// set is presented as unresolved history.
func (s *ResponderService) draftFromEvidence(ctx context.Context, queryJSON string, matches []domain.Match) (string, error) {
	var system string
	if domain.HasResolvedMatch(matches) {
		resolved := resolvedOnly(matches)
		logger.Debug("Drafting from %d resolved matches", len(resolved))

		evidence, err := marshalEvidence(resolved)
		if err != nil {
			return "", fmt.Errorf("responder: encoding evidence: %w", err)
		}
		system = fmt.Sprintf(s.loadPrompt(driven.PromptResolvedEvidence, resolvedEvidencePrompt), len(resolved), evidence)
	} else {
		logger.Debug("Drafting from %d unresolved matches", len(matches))

		evidence, err := marshalEvidence(matches)
		if err != nil {
			return "", fmt.Errorf("responder: encoding evidence: %w", err)
		}
		system = fmt.Sprintf(s.loadPrompt(driven.PromptUnresolvedEvidence, unresolvedEvidencePrompt), len(matches), evidence)
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: "New Ticket: " + queryJSON},
	}
	opts := driven.ChatOptions{
		MaxTokens:   draftMaxTokens,
		Temperature: draftTemperature,
		TopP:        draftTopP,
	}

	draft, err := s.llm.Chat(ctx, messages, opts)
	if err != nil {
		return "", fmt.Errorf("responder: generating draft: %w", err)
	}
	draft = strings.TrimSpace(draft)
	if draft == "" {
		return "", fmt.Errorf("responder: model returned an empty draft: %w", domain.ErrProvider)
	}

	return ensureSignOff(draft), nil
}

// loadPrompt returns the stored template for name, falling back to the
// built-in text when no store is wired or the template is missing.
func (s *ResponderService) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	text, err := s.prompts.Load(name)
	if err != nil || strings.TrimSpace(text) == "" {
		logger.Debug("Prompt %q unavailable, using built-in template", name)
		return fallback
	}
	return text
}

// ensureSignOff appends the standard closing when the model dropped it.
func ensureSignOff(draft string) string {
	if strings.Contains(draft, SignOff) {
		return draft
	}
	return draft + "\n\n" + SignOff
}

// resolvedOnly filters matches down to those with a known resolution.
func resolvedOnly(matches []domain.Match) []domain.Match {
	resolved := make([]domain.Match, 0, len(matches))
	for _, m := range matches {
		if m.Resolved {
			resolved = append(resolved, m)
		}
	}
	return resolved
}

// queryTicket is the JSON shape of the new ticket shown to the model.
type queryTicket struct {
	Issue       string `json:"issue"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// evidenceTicket is the JSON shape of one match shown to the model.
type evidenceTicket struct {
	TicketID    string  `json:"ticket_id"`
	Similarity  float64 `json:"similarity_score"`
	Issue       string  `json:"issue"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Resolved    bool    `json:"resolved"`
	Resolution  string  `json:"resolution"`
}

func marshalQuery(query domain.MatchQuery) (string, error) {
	data, err := json.MarshalIndent(queryTicket{
		Issue:       query.Issue,
		Category:    query.Category,
		Description: query.Description,
	}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func marshalEvidence(matches []domain.Match) (string, error) {
	tickets := make([]evidenceTicket, len(matches))
	for i, m := range matches {
		tickets[i] = evidenceTicket{
			TicketID:    m.TicketID,
			Similarity:  m.Similarity,
			Issue:       m.Issue,
			Category:    m.Category,
			Description: m.Description,
			Resolved:    m.Resolved,
			Resolution:  m.Resolution,
		}
	}
	data, err := json.MarshalIndent(tickets, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
