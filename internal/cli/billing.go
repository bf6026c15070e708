package cli

import (
	"fmt"

	"github.com/pratik-mahalle/arcgate/pkg/client"
	"github.com/spf13/cobra"
)

func newBillingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Subscription commands",
	}

	cmd.AddCommand(newBillingCheckoutCmd())

	return cmd
}

func newBillingCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Start the weekly arc-plus checkout",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := apiClient.CreatePayment(cmd.Context())
			if err != nil {
				if apiErr, ok := client.AsAPIError(err); ok && apiErr.IsAlreadySubscribed() {
					fmt.Fprintln(cmd.OutOrStdout(), "Already subscribed to arc-plus")
					return nil
				}
				return fmt.Errorf("checkout failed: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(cmd.OutOrStdout(), session)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Checkout session: %s\n", session.ID)
			fmt.Fprintln(cmd.OutOrStdout(), "Open the landing page in a browser to finish paying.")
			return nil
		},
	}
}
