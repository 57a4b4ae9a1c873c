package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// tokenCmd manages the GitHub token kept in the OS keychain.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the GitHub token stored in the OS keychain",
	Long: `Store a static GitHub token in the OS keychain so it does not live in
shell history or config files.

Token precedence: --token or REPOPULSE_TOKEN, then GITHUB_TOKEN, then the keychain.`,
}

// tokenSetCmd stores a token.
var tokenSetCmd = &cobra.Command{
	Use:   "set [TOKEN]",
	Short: "Save a token to the keychain (prompts when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var token string
		if len(args) == 1 {
			token = args[0]
		} else {
			read, err := promptToken()
			if err != nil {
				return err
			}
			token = read
		}
		token = strings.TrimSpace(token)
		if err := credentials.Set(token); err != nil {
			return err
		}
		cmd.Printf("Token %s saved to the OS keychain.\n", contract.MaskToken(token))
		return nil
	},
}

// tokenClearCmd removes the stored token.
var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the token from the keychain",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := credentials.Delete(); err != nil {
			return err
		}
		cmd.Println("Token removed from the OS keychain.")
		return nil
	},
}

// tokenStatusCmd shows which token would be used.
var tokenStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show which token source is active",
	PreRunE: commonSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Token == "" {
			cmd.Println("No token configured. Requests are unauthenticated (60 per hour).")
			return nil
		}
		cmd.Printf("Token: %s\n", contract.MaskToken(cfg.Token))
		cmd.Printf("Source: %s\n", cfg.TokenSource)
		return nil
	},
}

// promptToken reads a token without echo on a terminal, or a line from piped stdin.
func promptToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "GitHub token: ")
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token from stdin: %w", err)
	}
	return line, nil
}
