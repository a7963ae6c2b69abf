package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormaliseTicketText tests field joining and whitespace handling
func TestNormaliseTicketText(t *testing.T) {
	tests := []struct {
		name        string
		issue       string
		category    string
		description string
		expected    string
	}{
		{
			name:        "all fields present",
			issue:       "Printer offline",
			category:    "Hardware",
			description: "Printer does not respond after restart",
			expected:    "Printer offline Hardware Printer does not respond after restart",
		},
		{
			name:        "missing category",
			issue:       "Printer offline",
			category:    "",
			description: "Printer does not respond",
			expected:    "Printer offline Printer does not respond",
		},
		{
			name:        "only issue present",
			issue:       "VPN timeout",
			category:    "",
			description: "",
			expected:    "VPN timeout",
		},
		{
			name:        "only description present",
			issue:       "",
			category:    "",
			description: "Cannot log in",
			expected:    "Cannot log in",
		},
		{
			name:        "all fields empty",
			issue:       "",
			category:    "",
			description: "",
			expected:    "",
		},
		{
			name:        "surrounding whitespace trimmed",
			issue:       "  Printer offline  ",
			category:    " Hardware ",
			description: " no response ",
			expected:    "Printer offline Hardware no response",
		},
		{
			name:        "whitespace-only field treated as missing",
			issue:       "Printer offline",
			category:    "   ",
			description: "no response",
			expected:    "Printer offline no response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormaliseTicketText(tt.issue, tt.category, tt.description)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestNormaliseTicketText_Deterministic tests build/query consistency
func TestNormaliseTicketText_Deterministic(t *testing.T) {
	ticket := Ticket{
		Issue:       "WiFi drops",
		Category:    "Network",
		Description: "Connection drops every few minutes",
	}
	query := MatchQuery{
		Issue:       "WiFi drops",
		Category:    "Network",
		Description: "Connection drops every few minutes",
	}

	assert.Equal(t, ticket.NormalisedText(), query.NormalisedText())
	assert.Equal(t, ticket.NormalisedText(), ticket.NormalisedText())
}
