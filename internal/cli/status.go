package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server readiness and the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			ready, readyErr := apiClient.Ready(ctx)

			summary := map[string]interface{}{}
			if ready != nil {
				summary["server"] = ready.Status
				summary["checks"] = ready.Checks
			} else {
				summary["server"] = fmt.Sprintf("error: %v", readyErr)
			}

			account := "not signed in"
			if apiClient.GetToken() != "" {
				if user, err := apiClient.Me(ctx); err == nil {
					account = fmt.Sprintf("%s (%s)", user.Email, user.Tier())
				} else {
					account = "session expired"
				}
			}
			summary["account"] = account

			if getOutputFormat() != "table" {
				return printOutput(out, summary)
			}

			fmt.Fprintln(out, "arcgate status")
			fmt.Fprintln(out, strings.Repeat("=", 40))
			fmt.Fprintf(out, "  Server:   %s\n", formatStatus(fmt.Sprint(summary["server"])))
			if ready != nil {
				names := make([]string, 0, len(ready.Checks))
				for name := range ready.Checks {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(out, "    %-8s %s\n", name+":", formatStatus(ready.Checks[name]))
				}
			}
			fmt.Fprintf(out, "  Account:  %s\n", account)
			return nil
		},
	}
}
