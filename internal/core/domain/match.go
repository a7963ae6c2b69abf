package domain

// Default retrieval parameters.
const (
	// DefaultMatchK is the number of neighbours requested per query.
	DefaultMatchK = 3

	// DefaultSimilarityThreshold is the minimum similarity a candidate
	// must reach to appear in results.
	DefaultSimilarityThreshold = 0.5
)

// MatchQuery carries the free-text fields of an incoming ticket.
type MatchQuery struct {
	// Issue is the short problem summary.
	Issue string

	// Category is the free-form ticket category.
	Category string

	// Description is the full problem description.
	Description string
}

// NormalisedText returns the comparison string embedded for this query.
func (q MatchQuery) NormalisedText() string {
	return NormaliseTicketText(q.Issue, q.Category, q.Description)
}

// IsEmpty returns true when no field carries text.
func (q MatchQuery) IsEmpty() bool {
	return q.NormalisedText() == ""
}

// FindOptions configures a similarity query.
// The zero value selects the defaults.
type FindOptions struct {
	// K is the maximum number of matches to return.
	// Zero or negative selects DefaultMatchK.
	K int

	// Threshold is the minimum similarity a candidate must reach.
	// Zero selects DefaultSimilarityThreshold; a negative value
	// disables the filter entirely.
	Threshold float64
}

// WithDefaults returns a copy with unset fields replaced by defaults.
func (o FindOptions) WithDefaults() FindOptions {
	if o.K <= 0 {
		o.K = DefaultMatchK
	}
	if o.Threshold == 0 {
		o.Threshold = DefaultSimilarityThreshold
	}
	return o
}

// Match represents a ranked similarity hit against the ticket corpus.
// It carries a denormalised snapshot of the matched ticket's fields at
// query time and is never persisted.
type Match struct {
	// TicketID identifies the matched ticket.
	TicketID string

	// Similarity is 1 minus the cosine distance reported by the index.
	// For normalised text embeddings it falls in [0, 1] in practice.
	Similarity float64

	// Issue is the matched ticket's problem summary.
	Issue string

	// Category is the matched ticket's category.
	Category string

	// Description is the matched ticket's description.
	Description string

	// Resolved indicates whether the matched ticket was resolved.
	Resolved bool

	// Resolution is the matched ticket's recorded fix, if any.
	Resolution string
}

// SnapshotMatch builds a Match from a ticket and its similarity score.
func SnapshotMatch(t Ticket, similarity float64) Match {
	return Match{
		TicketID:    t.ID,
		Similarity:  similarity,
		Issue:       t.Issue,
		Category:    t.Category,
		Description: t.Description,
		Resolved:    t.Resolved,
		Resolution:  t.Resolution,
	}
}

// HasResolvedMatch reports whether any match carries a known resolution.
// The responder uses this to pick its prompting mode.
func HasResolvedMatch(matches []Match) bool {
	for _, m := range matches {
		if m.Resolved {
			return true
		}
	}
	return false
}
