package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/resolva-labs/resolva-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for
// new files. The texts must stay in sync with the built-in templates the
// responder falls back to when no prompt store is wired.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptResolvedEvidence: `You are an AI assistant that helps human agents respond to support tickets.

I will provide you with a new support ticket and details from %d similar resolved tickets from our database.

Your task is to:
1. Analyse the new ticket and the resolved similar tickets
2. Create a coherent response that addresses the new ticket's issue
3. Include the most relevant solution from the resolved tickets
4. End the message by saying: Best, your Smart assistant

Here are the similar resolved tickets:
%s

Please create a response that the agent can use to address the new ticket. Be concise but comprehensive.`,

	driven.PromptUnresolvedEvidence: `You are an AI assistant that helps human agents respond to support tickets.

I will provide you with a new support ticket and details from %d similar tickets from our database, but none of these similar tickets have been resolved.

Your task is to:
1. Analyse the new ticket and the similar unresolved tickets
2. Create a coherent response that acknowledges the ongoing nature of this issue
3. Share details about the similar tickets and what approaches did not work
4. Suggest potential next steps based on the history of attempts
5. Format your response to be ready for a human agent to review and send
6. End the message by saying: Best, your Smart assistant

Here are the similar unresolved tickets:
%s

Please create a response that the agent can use to address the new ticket, acknowledging that we do not have a proven solution yet.`,

	driven.PromptNoEvidence: `You are a technical support assistant. Provide a very brief solution suggestion (max 15 words) for the following issue ONLY if you are highly confident. If not confident, respond with 'No immediate solution available.'`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.resolva/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".resolva", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// Names returns the known prompt names in a stable order.
func Names() []string {
	return []string{
		driven.PromptResolvedEvidence,
		driven.PromptUnresolvedEvidence,
		driven.PromptNoEvidence,
	}
}

// Customised reports whether the on-disk prompt differs from the embedded
// default. Unknown names and unreadable files report false.
func (s *PromptStore) Customised(name string) bool {
	def, ok := defaultPrompts[name]
	if !ok {
		return false
	}
	content, err := s.loadFromFile(name)
	if err != nil {
		return false
	}
	return content != strings.TrimSpace(def)
}

// Reset restores the named prompt file to its embedded default, or every
// prompt when name is empty, then clears the cache.
func (s *PromptStore) Reset(name string) error {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	names := Names()
	if name != "" {
		if _, ok := defaultPrompts[name]; !ok {
			return fmt.Errorf("unknown prompt %q", name)
		}
		names = []string{name}
	}

	for _, n := range names {
		path := filepath.Join(s.promptDir, n+".txt")
		if err := os.WriteFile(path, []byte(defaultPrompts[n]), 0600); err != nil {
			return fmt.Errorf("reset prompt %q: %w", n, err)
		}
	}

	s.Reload()
	return nil
}

// Watch reloads templates when files in the prompt directory change, so
// prompt edits take effect without restarting. It returns once the watcher
// is registered; reloading continues in the background until ctx is
// cancelled.
func (s *PromptStore) Watch(ctx context.Context) error {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}
	if err := watcher.Add(s.promptDir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", s.promptDir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				if filepath.Ext(event.Name) != ".txt" {
					continue
				}
				s.Reload()
			case _, ok := <-watcher.Errors:
				// Watch errors are not fatal; the cached templates stay valid
				if !ok {
					return
				}
			}
		}
	}()

	return nil
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Resolva Prompts

This directory contains customisable prompts used when Resolva drafts ticket
responses.

## Files

- ` + "`resolved_evidence.txt`" + ` - Drafts a reply from similar tickets with known fixes
- ` + "`unresolved_evidence.txt`" + ` - Drafts a reply when similar tickets are still open
- ` + "`no_evidence.txt`" + ` - Asks for a short, conservative suggestion when nothing matched

## Customisation

Edit any file to customise drafting behaviour. Changes take effect on the
next command, or immediately when running with a prompt watcher.

## Format Placeholders

The evidence prompts use Go fmt placeholders:
- ` + "`%d`" + ` - Number of similar tickets quoted
- ` + "`%s`" + ` - JSON array of those tickets

Ensure customised prompts maintain placeholders in the correct positions.
The no-evidence prompt takes no placeholders.
`
	return os.WriteFile(path, []byte(content), 0600)
}
