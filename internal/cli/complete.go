package cli

import (
	"context"
	"fmt"

	"github.com/pratik-mahalle/arcgate/pkg/client"
	"github.com/spf13/cobra"
)

type completeFunc func(ctx context.Context, prompt string) (*client.Completion, error)

func newCompleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Send a prompt to a model tier",
	}

	cmd.AddCommand(newCompleteTierCmd("core", "Complete on arc-core (any signed-in user)", func(ctx context.Context, p string) (*client.Completion, error) {
		return apiClient.ArcCore(ctx, p)
	}))
	cmd.AddCommand(newCompleteTierCmd("plus", "Complete on arc-plus (subscribers)", func(ctx context.Context, p string) (*client.Completion, error) {
		return apiClient.ArcPlus(ctx, p)
	}))

	return cmd
}

func newCompleteTierCmd(use, short string, complete completeFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [prompt...]",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(cmd.InOrStdin(), cmd.OutOrStdout(), args)
			if err != nil {
				return err
			}

			resp, err := complete(cmd.Context(), prompt)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(cmd.OutOrStdout(), resp)
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Text())
			return nil
		},
	}
}
