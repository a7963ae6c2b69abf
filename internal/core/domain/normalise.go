package domain

import "strings"

// NormaliseTicketText derives the single comparison string used when
// embedding a ticket. Fields are joined in fixed order (issue, category,
// description) with single spaces; blank fields are skipped and the
// result carries no leading or trailing whitespace. The function is
// pure, so a query built from the same fields normalises identically to
// what was embedded at build time.
func NormaliseTicketText(issue, category, description string) string {
	parts := make([]string, 0, 3)
	for _, field := range []string{issue, category, description} {
		field = strings.TrimSpace(field)
		if field != "" {
			parts = append(parts, field)
		}
	}
	return strings.Join(parts, " ")
}
