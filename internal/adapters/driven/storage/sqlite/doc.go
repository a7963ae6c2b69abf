// Package sqlite provides the durable SQLite-backed ticket corpus store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. The corpus row order is
// significant: it defines the slot assignment used when the vector index is
// built, so tickets carry an explicit position column preserved across
// restarts and updates.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration records its own version row in
// schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.resolva/data/tickets.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
