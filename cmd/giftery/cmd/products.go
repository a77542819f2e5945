package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/samvad-hq/giftery-client/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newProductsCmd(run vendorRunner) *cobra.Command {
	var (
		filter  catalog.Filter
		face    int64
		asJSON  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List certificates available for ordering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if face < 0 {
				return fmt.Errorf("--face must not be negative")
			}
			filter.Face = decimal.NewFromInt(face)

			return run(cmd, func(v Vendor) error {
				products, err := v.Products(cmd.Context(), filter)
				if err != nil {
					return err
				}
				rows := catalog.Summaries(products)

				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(rows)
				}

				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTITLE\tFACES")
				for _, r := range rows {
					fmt.Fprintf(w, "%d\t%s\t%s\n", r.ID, r.Title, r.Faces)
					if verbose && r.Brief != "" {
						fmt.Fprintf(w, "\t  %s\t\n", r.Brief)
					}
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(out, "%d product(s)\n", len(rows))
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&filter.Query, "query", "q", "", "match title or description")
	flags.IntVar(&filter.Category, "category", 0, "only products in this category id")
	flags.Int64Var(&face, "face", 0, "only products accepting this face value")
	flags.BoolVar(&filter.DigitalOnly, "digital", false, "only products accepted from a screen")
	flags.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	flags.BoolVarP(&verbose, "verbose", "v", false, "include product descriptions")
	return cmd
}
