package domain

// Ticket represents a recorded support ticket.
// It is the canonical corpus record the matcher retrieves against.
type Ticket struct {
	// ID is the unique, stable, externally assigned identifier.
	ID string

	// Issue is the short problem summary.
	Issue string

	// Category is the free-form ticket category.
	Category string

	// Description is the full problem description.
	Description string

	// Resolved indicates whether the ticket has a known resolution.
	Resolved bool

	// Resolution is the recorded fix. Empty when unresolved.
	Resolution string
}

// NormalisedText returns the comparison string embedded for this ticket.
func (t Ticket) NormalisedText() string {
	return NormaliseTicketText(t.Issue, t.Category, t.Description)
}
