package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configfile "github.com/resolva-labs/resolva-cli/internal/adapters/driven/config/file"
	"github.com/resolva-labs/resolva-cli/internal/core/ports/driven"
)

// setupTestPromptStore points the prompts commands at a temp directory
// and returns a cleanup that restores the previous store.
func setupTestPromptStore(t *testing.T) func() {
	t.Helper()

	old := promptStore
	store, err := configfile.NewPromptStore(t.TempDir())
	require.NoError(t, err)
	promptStore = store

	return func() { promptStore = old }
}

func TestPromptsCmd_Use(t *testing.T) {
	assert.Equal(t, "prompts", promptsCmd.Use)
}

func TestPromptsCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range promptsCmd.Commands() {
		names[sub.Name()] = true
	}

	assert.True(t, names["list"])
	assert.True(t, names["path"])
	assert.True(t, names["reset"])
}

func TestPromptsListCmd_ListsAllPrompts(t *testing.T) {
	cleanup := setupTestPromptStore(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"prompts", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "resolved_evidence")
	assert.Contains(t, out, "unresolved_evidence")
	assert.Contains(t, out, "no_evidence")
	assert.Contains(t, out, "default")
}

func TestPromptsListCmd_MarksCustomised(t *testing.T) {
	cleanup := setupTestPromptStore(t)
	defer cleanup()

	err := os.WriteFile(
		filepath.Join(promptStore.Dir(), "resolved_evidence.txt"),
		[]byte("my custom prompt"),
		0600,
	)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"prompts", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err = rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "customised")
}

func TestPromptsPathCmd_PrintsDir(t *testing.T) {
	cleanup := setupTestPromptStore(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"prompts", "path"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), promptStore.Dir())
}

func TestPromptsResetCmd_RestoresSinglePrompt(t *testing.T) {
	cleanup := setupTestPromptStore(t)
	defer cleanup()

	defaultContent, err := promptStore.Load(driven.PromptResolvedEvidence)
	require.NoError(t, err)

	err = os.WriteFile(
		filepath.Join(promptStore.Dir(), "resolved_evidence.txt"),
		[]byte("my custom prompt"),
		0600,
	)
	require.NoError(t, err)
	promptStore.Reload()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"prompts", "reset", "resolved_evidence"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err = rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "restored to its default")

	prompt, err := promptStore.Load(driven.PromptResolvedEvidence)
	require.NoError(t, err)
	assert.Equal(t, defaultContent, prompt)
}

func TestPromptsResetCmd_RestoresAllPrompts(t *testing.T) {
	cleanup := setupTestPromptStore(t)
	defer cleanup()

	// Materialise defaults, then customise every prompt
	_, err := promptStore.Load(driven.PromptResolvedEvidence)
	require.NoError(t, err)
	for _, name := range configfile.Names() {
		err = os.WriteFile(
			filepath.Join(promptStore.Dir(), name+".txt"),
			[]byte("edited"),
			0600,
		)
		require.NoError(t, err)
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"prompts", "reset"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err = rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "All prompts restored")

	for _, name := range configfile.Names() {
		assert.False(t, promptStore.Customised(name))
	}
}

func TestPromptsResetCmd_UnknownPrompt(t *testing.T) {
	cleanup := setupTestPromptStore(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"prompts", "reset", "nonexistent_prompt"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent_prompt")
}
