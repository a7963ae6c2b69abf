package mcp

import (
	"github.com/resolva-labs/resolva-cli/internal/core/ports/driven"
	"github.com/resolva-labs/resolva-cli/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Matcher finds similar tickets.
	Matcher driving.MatcherService

	// Responder drafts candidate replies. Optional; the draft_response
	// tool is only registered when a responder is configured.
	Responder driving.ResponderService

	// Tickets exposes the raw corpus for resources. Optional.
	Tickets driven.TicketStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Matcher == nil {
		return ErrMissingMatcherService
	}
	// Responder and Tickets are optional
	return nil
}
