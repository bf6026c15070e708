package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Session commands",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthWhoamiCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in by email (the account is created on first use)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = promptInput(cmd.InOrStdin(), cmd.OutOrStdout(), "Email: ")
			}

			resp, err := apiClient.Login(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			viper.Set("auth.token", apiClient.GetToken())
			viper.Set("auth.email", resp.User.Email)
			if _, err := writeConfig(); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", resp.User.Email, resp.User.Tier())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and clear stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiClient.GetToken() != "" {
				if err := apiClient.Logout(cmd.Context()); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: server logout failed: %v\n", err)
				}
			}

			viper.Set("auth.token", "")
			viper.Set("auth.email", "")
			if _, err := writeConfig(); err != nil {
				return fmt.Errorf("failed to clear credentials: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully")
			return nil
		},
	}
}

func newAuthWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show current user info",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := apiClient.Me(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get user info: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(cmd.OutOrStdout(), user)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Email:    %s\n", user.Email)
			fmt.Fprintf(out, "ID:       %s\n", user.ID)
			fmt.Fprintf(out, "Tier:     %s\n", user.Tier())
			if user.BillingSubscriptionID != nil {
				fmt.Fprintf(out, "Sub:      %s\n", *user.BillingSubscriptionID)
			}
			return nil
		},
	}
}

// promptInput reads a line, without echo suppression
func promptInput(in io.Reader, out io.Writer, prompt string) string {
	fmt.Fprint(out, prompt)
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readPrompt returns the prompt text from args, or from stdin when none
// are given. An interactive terminal gets a label first.
func readPrompt(in io.Reader, out io.Writer, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return promptInput(in, out, "Prompt: "), nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
