package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBalanceCmd(run vendorRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the account balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(v Vendor) error {
				balance, err := v.Balance(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), balance.StringFixed(2))
				return nil
			})
		},
	}
}
