package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates malformed or invalid input,
	// such as an empty corpus at build time or a non-positive k.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotInitialised indicates the matcher was queried before an
	// index was built or loaded.
	ErrNotInitialised = errors.New("matcher not initialised")

	// ErrBuildInProgress indicates an index build is already running.
	ErrBuildInProgress = errors.New("index build in progress")

	// ErrProvider indicates an external AI provider was unreachable
	// or returned a malformed response.
	ErrProvider = errors.New("provider failure")

	// ErrPersistence indicates the index file is missing, corrupt,
	// or incompatible with the configured dimension.
	ErrPersistence = errors.New("persistence failure")

	// ErrRecordNotFound indicates an index slot resolved to a ticket
	// absent from the attached corpus. This signals corpus/index drift
	// and is fatal to the query rather than silently skipped.
	ErrRecordNotFound = errors.New("record not found for index slot")

	// ErrNotConfigured indicates a required provider has incomplete
	// settings. Matching needs an embedding provider; drafting
	// additionally needs an LLM provider.
	ErrNotConfigured = errors.New("provider not configured")
)
