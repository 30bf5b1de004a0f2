package main

import (
	"github.com/spf13/cobra"
)

func newAccountCmd(opts *cliOptions) *cobra.Command {
	var health bool

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Show account plan and credit balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := jobClient(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if health {
				h, err := cli.Health(ctx)
				if err != nil {
					return err
				}
				return printOut(cmd, "Service %s version=%s", h.Status, h.Version)
			}

			account, err := cli.GetAccount(ctx)
			if err != nil {
				return err
			}

			return printOut(cmd, "Account %s plan=%s credits=%d used=%d",
				account.Email, account.Plan, account.CreditsRemaining, account.CreditsUsed)
		},
	}

	cmd.Flags().BoolVar(&health, "health", false, "Check service liveness instead")

	return cmd
}
