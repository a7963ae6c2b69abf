package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/resolva-labs/resolva-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/resolva-labs/resolva-cli/internal/core/domain"
	"github.com/resolva-labs/resolva-cli/internal/core/ports/driven"
)

// Store is a SQLite-based storage that provides access to the ticket
// corpus through a wrapper type.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.resolva/data/tickets.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".resolva", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "tickets.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// TicketStore returns a TicketStore interface backed by this store.
func (s *Store) TicketStore() driven.TicketStore {
	return &ticketStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_tickets.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Ticket Store ====================

// ticketStore implements driven.TicketStore.
type ticketStore struct {
	store *Store
}

var _ driven.TicketStore = (*ticketStore)(nil)

// Put stores or updates a ticket. A new ticket is appended to the corpus
// order; updating an existing one keeps its position.
func (s *ticketStore) Put(ctx context.Context, ticket domain.Ticket) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO tickets (id, issue, category, description, resolved, resolution, position)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM tickets))
		ON CONFLICT(id) DO UPDATE SET
			issue = excluded.issue,
			category = excluded.category,
			description = excluded.description,
			resolved = excluded.resolved,
			resolution = excluded.resolution
	`, ticket.ID, ticket.Issue, ticket.Category, ticket.Description,
		ticket.Resolved, ticket.Resolution)

	if err != nil {
		return fmt.Errorf("saving ticket: %w", err)
	}
	return nil
}

// Get retrieves a ticket by ID.
func (s *ticketStore) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, issue, category, description, resolved, resolution
		FROM tickets WHERE id = ?
	`, id)

	return scanTicket(row)
}

// ListInOrder returns every ticket in corpus (insertion) order.
func (s *ticketStore) ListInOrder(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, issue, category, description, resolved, resolution
		FROM tickets ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket //nolint:prealloc // size unknown from query
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(&ticket.ID, &ticket.Issue, &ticket.Category,
			&ticket.Description, &ticket.Resolved, &ticket.Resolution); err != nil {
			return nil, fmt.Errorf("scanning ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tickets: %w", err)
	}

	return tickets, nil
}

// Count returns the number of stored tickets.
func (s *ticketStore) Count(ctx context.Context) (int, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tickets")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting tickets: %w", err)
	}
	return count, nil
}

// DeleteAll removes every ticket and resets the corpus order.
func (s *ticketStore) DeleteAll(ctx context.Context) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM tickets")
	if err != nil {
		return fmt.Errorf("deleting tickets: %w", err)
	}
	return nil
}

// Close closes the underlying store.
func (s *ticketStore) Close() error {
	return s.store.Close()
}

// scanTicket scans a single ticket row.
func scanTicket(row *sql.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(&ticket.ID, &ticket.Issue, &ticket.Category,
		&ticket.Description, &ticket.Resolved, &ticket.Resolution); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning ticket: %w", err)
	}
	return &ticket, nil
}
