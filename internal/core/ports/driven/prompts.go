package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptResolvedEvidence drafts a response when at least one similar
	// ticket carries a known resolution. The template runs as the system
	// prompt and expects two placeholders: %d for the number of resolved
	// matches and %s for their JSON. The new ticket travels in the user
	// message.
	PromptResolvedEvidence = "resolved_evidence"

	// PromptUnresolvedEvidence drafts a response when similar tickets
	// exist but none was resolved. Same %d and %s placeholders.
	PromptUnresolvedEvidence = "unresolved_evidence"

	// PromptNoEvidence drafts a short, low-confidence suggestion when no
	// ticket cleared the similarity threshold. The template takes no
	// placeholders; the new ticket travels in the user message.
	PromptNoEvidence = "no_evidence"
)
