package cmd

import (
	"fmt"

	"github.com/samvad-hq/giftery-client/pkg/giftery"
	"github.com/spf13/cobra"
)

func newOrderCmd(run vendorRunner) *cobra.Command {
	var order giftery.OrderData

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Buy a gift certificate",
		Long: `Places a makeOrder call.

Orders are journaled by external id; repeating a command with the same
--external-id returns the first order instead of buying again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := order.Validate(); err != nil {
				return err
			}
			return run(cmd, func(v Vendor) error {
				placed, err := v.PlaceOrder(cmd.Context(), order)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if placed.Duplicate {
					fmt.Fprintf(out, "order %d already placed for external id %s\n", placed.Order.OrderID, placed.Order.ExternalID)
					return nil
				}
				fmt.Fprintf(out, "order %d placed (external id %s)\n", placed.Order.OrderID, placed.Order.ExternalID)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&order.ProductID, "product", 0, "product id")
	flags.Int64Var(&order.Face, "face", 0, "face value")
	flags.StringVar(&order.EmailTo, "email", "", "recipient email")
	flags.StringVar(&order.From, "from", "", "sender name")
	flags.StringVar(&order.To, "to", "", "recipient name")
	flags.StringVar(&order.Text, "text", "", "greeting text")
	flags.StringVar(&order.Comment, "comment", "", "internal comment")
	flags.StringVar(&order.ExternalID, "external-id", "", "idempotency key (generated when empty)")
	flags.StringVar(&order.DeliveryType, "delivery", "", "delivery type: download or email")
	flags.BoolVar(&order.TestMode, "test", false, "place a test order")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("face")
	return cmd
}
