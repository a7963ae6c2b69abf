package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFindOptions_WithDefaults tests zero-value handling
func TestFindOptions_WithDefaults(t *testing.T) {
	tests := []struct {
		name              string
		opts              FindOptions
		expectedK         int
		expectedThreshold float64
	}{
		{
			name:              "zero value selects defaults",
			opts:              FindOptions{},
			expectedK:         DefaultMatchK,
			expectedThreshold: DefaultSimilarityThreshold,
		},
		{
			name:              "explicit values kept",
			opts:              FindOptions{K: 10, Threshold: 0.7},
			expectedK:         10,
			expectedThreshold: 0.7,
		},
		{
			name:              "negative k selects default",
			opts:              FindOptions{K: -1, Threshold: 0.7},
			expectedK:         DefaultMatchK,
			expectedThreshold: 0.7,
		},
		{
			name:              "negative threshold disables filtering",
			opts:              FindOptions{K: 5, Threshold: -1},
			expectedK:         5,
			expectedThreshold: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.opts.WithDefaults()
			assert.Equal(t, tt.expectedK, got.K)
			assert.Equal(t, tt.expectedThreshold, got.Threshold)
		})
	}
}

// TestMatchQuery_IsEmpty tests empty detection across field subsets
func TestMatchQuery_IsEmpty(t *testing.T) {
	assert.True(t, MatchQuery{}.IsEmpty())
	assert.True(t, MatchQuery{Issue: "   "}.IsEmpty())
	assert.False(t, MatchQuery{Issue: "Printer offline"}.IsEmpty())
	assert.False(t, MatchQuery{Description: "no response"}.IsEmpty())
}

// TestSnapshotMatch tests field denormalisation
func TestSnapshotMatch(t *testing.T) {
	ticket := Ticket{
		ID:          "T-42",
		Issue:       "Printer offline",
		Category:    "Hardware",
		Description: "Does not respond",
		Resolved:    true,
		Resolution:  "Reinstall driver",
	}

	m := SnapshotMatch(ticket, 0.87)

	assert.Equal(t, "T-42", m.TicketID)
	assert.Equal(t, 0.87, m.Similarity)
	assert.Equal(t, ticket.Issue, m.Issue)
	assert.Equal(t, ticket.Category, m.Category)
	assert.Equal(t, ticket.Description, m.Description)
	assert.True(t, m.Resolved)
	assert.Equal(t, "Reinstall driver", m.Resolution)
}

// TestHasResolvedMatch tests the responder mode predicate
func TestHasResolvedMatch(t *testing.T) {
	assert.False(t, HasResolvedMatch(nil))
	assert.False(t, HasResolvedMatch([]Match{
		{TicketID: "a"},
		{TicketID: "b"},
	}))
	assert.True(t, HasResolvedMatch([]Match{
		{TicketID: "a"},
		{TicketID: "b", Resolved: true},
	}))
}
