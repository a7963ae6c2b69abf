package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/resolva-labs/resolva-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Resolva resources.
	uriScheme = "resolva://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing the corpus.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "tickets",
		Name:        "tickets",
		Description: "List of all recorded support tickets",
		MIMEType:    "application/json",
	}, s.handleTicketsResource)

	// Template for a single ticket record.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "tickets/{ticketId}",
		Name:        "ticket-record",
		Description: "Full record of a specific ticket",
		MIMEType:    "application/json",
	}, s.handleTicketResource)
}

// handleTicketsResource returns a listing of the whole corpus.
func (s *Server) handleTicketsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Tickets == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	tickets, err := s.ports.Tickets.ListInOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}

	// Build simplified ticket list.
	type ticketInfo struct {
		ID       string `json:"id"`
		Issue    string `json:"issue"`
		Category string `json:"category,omitempty"`
		Resolved bool   `json:"resolved"`
	}

	infos := make([]ticketInfo, len(tickets))
	for i := range tickets {
		infos[i] = ticketInfo{
			ID:       tickets[i].ID,
			Issue:    tickets[i].Issue,
			Category: tickets[i].Category,
			Resolved: tickets[i].Resolved,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling tickets: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleTicketResource returns the full record of a specific ticket.
func (s *Server) handleTicketResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Tickets == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract ticketId from URI: resolva://tickets/{ticketId}
	ticketID := extractTicketID(req.Params.URI)
	if ticketID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	ticket, err := s.ports.Tickets.Get(ctx, ticketID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting ticket: %w", err)
	}

	record := struct {
		ID          string `json:"id"`
		Issue       string `json:"issue"`
		Category    string `json:"category,omitempty"`
		Description string `json:"description,omitempty"`
		Resolved    bool   `json:"resolved"`
		Resolution  string `json:"resolution,omitempty"`
	}{
		ID:          ticket.ID,
		Issue:       ticket.Issue,
		Category:    ticket.Category,
		Description: ticket.Description,
		Resolved:    ticket.Resolved,
		Resolution:  ticket.Resolution,
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling ticket: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractTicketID extracts the ticket ID from a URI like resolva://tickets/{ticketId}.
func extractTicketID(uri string) string {
	const prefix = uriScheme + "tickets/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
