package file

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/resolva-labs/resolva-cli/internal/core/domain"
)

// Column names recognised in a CSV header.
const (
	colID          = "ticket id"
	colIssue       = "issue"
	colCategory    = "category"
	colDescription = "description"
	colResolved    = "resolved"
	colResolution  = "resolution"
)

// ReadFile loads ticket records from a corpus file, choosing the parser
// by extension. Row order in the file is the order of the returned slice.
func ReadFile(path string) ([]domain.Ticket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus file: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ReadCSV(f)
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return nil, fmt.Errorf("unsupported corpus format %q, want .csv, .yaml or .yml: %w", ext, domain.ErrInvalidArgument)
	}
}

// ReadCSV parses a ticket corpus from CSV. The first row must be a
// header; column names are matched case-insensitively and columns the
// record does not use are ignored.
func ReadCSV(r io.Reader) ([]domain.Ticket, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv corpus has no header row: %w", domain.ErrInvalidArgument)
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	tickets := make([]domain.Ticket, 0, len(rows)-1)
	for _, row := range rows[1:] {
		ticket := domain.Ticket{
			ID:          cell(row, cols, colID),
			Issue:       cell(row, cols, colIssue),
			Category:    cell(row, cols, colCategory),
			Description: cell(row, cols, colDescription),
			Resolved:    parseResolved(cell(row, cols, colResolved)),
			Resolution:  cell(row, cols, colResolution),
		}
		if ticket.ID == "" {
			ticket.ID = uuid.New().String()
		}
		tickets = append(tickets, ticket)
	}

	return tickets, nil
}

// ticketRecord is the YAML shape of one corpus entry.
type ticketRecord struct {
	ID          string       `yaml:"id"`
	Issue       string       `yaml:"issue"`
	Category    string       `yaml:"category"`
	Description string       `yaml:"description"`
	Resolved    resolvedFlag `yaml:"resolved"`
	Resolution  string       `yaml:"resolution"`
}

// resolvedFlag accepts the bool, string and numeric spellings of the
// resolved field, so hand-written corpora do not need strict typing.
type resolvedFlag bool

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *resolvedFlag) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case bool:
		*f = resolvedFlag(v)
	case int:
		*f = resolvedFlag(v == 1)
	case string:
		*f = resolvedFlag(parseResolved(v))
	default:
		return fmt.Errorf("resolved: unsupported value %v", raw)
	}
	return nil
}

// ReadYAML parses a ticket corpus from a YAML list of ticket objects.
// An empty document yields an empty corpus without error.
func ReadYAML(r io.Reader) ([]domain.Ticket, error) {
	var records []ticketRecord
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	tickets := make([]domain.Ticket, 0, len(records))
	for _, rec := range records {
		ticket := domain.Ticket{
			ID:          strings.TrimSpace(rec.ID),
			Issue:       rec.Issue,
			Category:    rec.Category,
			Description: rec.Description,
			Resolved:    bool(rec.Resolved),
			Resolution:  rec.Resolution,
		}
		if ticket.ID == "" {
			ticket.ID = uuid.New().String()
		}
		tickets = append(tickets, ticket)
	}

	return tickets, nil
}

// cell returns the trimmed value of the named column, or "" when the
// column is absent from the header or the row is short.
func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseResolved reports whether a textual resolved flag is affirmative.
func parseResolved(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}
