package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and edit configuration stored in ~/.resolva/config.toml.

Settings use dotted keys:

  resolva config set embedding.provider ollama
  resolva config set embedding.model all-minilm
  resolva config set llm.provider huggingface
  resolva config set llm.api_key          # prompts without echo
  resolva config get llm.provider
  resolva config list
  resolva config delete llm.api_key

API keys may also come from HUGGINGFACE_API_KEY or OPENAI_API_KEY, or a
.env file in the working directory.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Omit the value for secret keys to be
prompted for it without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigDelete,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configDeleteCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		if err := initConfigServices(); err != nil {
			return err
		}
	}

	key := args[0]
	value, ok := configStore.Get(key)
	if !ok {
		return fmt.Errorf("key %q is not set", key)
	}

	if isSecretKey(key) {
		if s, ok := value.(string); ok && s != "" {
			cmd.Println(maskAPIKey(s))
			return nil
		}
	}
	cmd.Printf("%v\n", value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		if err := initConfigServices(); err != nil {
			return err
		}
	}

	key := args[0]

	var raw string
	switch {
	case len(args) == 2:
		raw = args[1]
	case isSecretKey(key):
		cmd.Printf("Enter value for %s: ", key)
		raw = readPassword()
		cmd.Println()
		if raw == "" {
			return errors.New("no value entered")
		}
	default:
		return fmt.Errorf("a value is required for %s", key)
	}

	value := coerceValue(raw)
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}

	if isSecretKey(key) {
		cmd.Printf("Set %s to %s\n", key, maskAPIKey(raw))
	} else {
		cmd.Printf("Set %s to %v\n", key, value)
	}

	validateTouchedProvider(cmd, key)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		if err := initConfigServices(); err != nil {
			return err
		}
	}

	all := configStore.GetAll()
	if len(all) == 0 {
		cmd.Println("No configuration set.")
		return nil
	}

	keys := make([]string, 0, len(all))
	for key := range all {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := all[key]
		if isSecretKey(key) {
			if s, ok := value.(string); ok {
				value = maskAPIKey(s)
			}
		}
		cmd.Printf("%s = %v\n", key, value)
	}
	return nil
}

func runConfigDelete(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		if err := initConfigServices(); err != nil {
			return err
		}
	}

	key := args[0]
	if _, ok := configStore.Get(key); !ok {
		cmd.Printf("%s is not set\n", key)
		return nil
	}

	if err := configStore.Delete(key); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	cmd.Printf("Removed %s\n", key)
	return nil
}

// validateTouchedProvider pings the provider a changed key belongs to so
// typos surface immediately. Failures are reported but do not undo the set.
func validateTouchedProvider(cmd *cobra.Command, key string) {
	if settingsService == nil {
		return
	}

	switch {
	case strings.HasPrefix(key, "embedding."):
		cmd.Print("Validating embedding configuration... ")
		if err := settingsService.ValidateEmbeddingConfig(); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return
		}
		cmd.Println("OK")
	case strings.HasPrefix(key, "llm."):
		cmd.Print("Validating LLM configuration... ")
		if err := settingsService.ValidateLLMConfig(); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return
		}
		cmd.Println("OK")
	}
}

// isSecretKey reports whether a key holds a credential.
func isSecretKey(key string) bool {
	return strings.HasSuffix(key, ".api_key")
}

// coerceValue converts CLI input to the most specific TOML-friendly type.
func coerceValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
