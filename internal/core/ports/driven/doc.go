// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for matching to function:
//
//   - TicketStore: Ticket corpus persistence
//   - EmbeddingService: Generates vector embeddings from ticket text
//   - VectorIndex: ANN storage and k-nearest-neighbour search
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Drafts candidate responses. Without it, matching still
//     works and only the respond pipeline is disabled.
//   - PromptStore: Prompt templates for the responder. Only consulted
//     when an LLMService is configured.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
