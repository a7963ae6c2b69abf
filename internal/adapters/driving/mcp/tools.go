package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/resolva-labs/resolva-cli/internal/core/domain"
)

// MatchInput is the input schema for the find_similar_tickets and
// draft_response tools.
type MatchInput struct {
	Issue       string  `json:"issue" jsonschema:"short summary of the new ticket"`
	Category    string  `json:"category,omitempty" jsonschema:"ticket category"`
	Description string  `json:"description,omitempty" jsonschema:"full problem description"`
	K           int     `json:"k,omitempty" jsonschema:"maximum number of matches to return (default 3)"`
	Threshold   float64 `json:"threshold,omitempty" jsonschema:"minimum similarity between 0 and 1 (default 0.5)"`
}

// MatchOutput is the output schema for the find_similar_tickets tool.
type MatchOutput struct {
	Matches []MatchResultOutput `json:"matches"`
	Count   int                 `json:"count"`
}

// MatchResultOutput represents a single ranked match.
type MatchResultOutput struct {
	TicketID    string  `json:"ticket_id"`
	Similarity  float64 `json:"similarity"`
	Issue       string  `json:"issue"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	Resolved    bool    `json:"resolved"`
	Resolution  string  `json:"resolution,omitempty"`
}

// DraftOutput is the output schema for the draft_response tool.
type DraftOutput struct {
	Draft   string              `json:"draft"`
	Matches []MatchResultOutput `json:"matches"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_similar_tickets",
		Description: "Find recorded support tickets semantically similar to a new issue, with resolved tickets ranked first",
	}, s.handleFindSimilar)

	// Drafting needs an LLM; skip the tool when none is configured.
	if s.ports.Responder != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "draft_response",
			Description: "Draft a candidate support response for a new issue from similar recorded tickets",
		}, s.handleDraftResponse)
	}
}

// handleFindSimilar handles the find_similar_tickets tool invocation.
func (s *Server) handleFindSimilar(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MatchInput,
) (*mcp.CallToolResult, MatchOutput, error) {
	query := domain.MatchQuery{
		Issue:       input.Issue,
		Category:    input.Category,
		Description: input.Description,
	}
	opts := domain.FindOptions{K: input.K, Threshold: input.Threshold}

	matches, err := s.ports.Matcher.FindSimilar(ctx, query, opts)
	if err != nil {
		return nil, MatchOutput{}, err
	}

	output := MatchOutput{
		Matches: toMatchOutputs(matches),
		Count:   len(matches),
	}
	return nil, output, nil
}

// handleDraftResponse handles the draft_response tool invocation.
func (s *Server) handleDraftResponse(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MatchInput,
) (*mcp.CallToolResult, DraftOutput, error) {
	query := domain.MatchQuery{
		Issue:       input.Issue,
		Category:    input.Category,
		Description: input.Description,
	}
	opts := domain.FindOptions{K: input.K, Threshold: input.Threshold}

	matches, err := s.ports.Matcher.FindSimilar(ctx, query, opts)
	if err != nil {
		return nil, DraftOutput{}, err
	}

	draft, err := s.ports.Responder.DraftResponse(ctx, query, matches)
	if err != nil {
		return nil, DraftOutput{}, err
	}

	output := DraftOutput{
		Draft:   draft,
		Matches: toMatchOutputs(matches),
	}
	return nil, output, nil
}

func toMatchOutputs(matches []domain.Match) []MatchResultOutput {
	outputs := make([]MatchResultOutput, len(matches))
	for i := range matches {
		outputs[i] = MatchResultOutput{
			TicketID:    matches[i].TicketID,
			Similarity:  matches[i].Similarity,
			Issue:       matches[i].Issue,
			Category:    matches[i].Category,
			Description: matches[i].Description,
			Resolved:    matches[i].Resolved,
			Resolution:  matches[i].Resolution,
		}
	}
	return outputs
}
