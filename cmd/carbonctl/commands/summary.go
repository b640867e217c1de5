package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/metrics"
)

func NewSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print fleet totals and per-company emissions and tax",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total emissions:  %s\n", metrics.FormatTons(snap.TotalEmissions))
			fmt.Fprintf(out, "Total carbon tax: %s\n", metrics.FormatCurrency(snap.TotalTax))
			fmt.Fprintf(out, "Trees to offset:  %s\n", metrics.FormatNumber(snap.Offset.Trees))
			if mom := snap.MonthOverMonth; mom.CurrentMonth != "" {
				fmt.Fprintf(out, "%s vs %s:  %s\n", mom.CurrentMonth, mom.PreviousMonth, metrics.FormatPercent(mom.Percent))
			}
			fmt.Fprintln(out)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "COMPANY\tCOUNTRY\tEMISSIONS\tTAX\tTREND\tTOP SOURCE")
			for _, c := range snap.Companies {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					c.Name, c.CountryName,
					metrics.FormatTons(c.TotalEmissions),
					metrics.FormatCurrency(c.CarbonTax),
					metrics.FormatTons(c.Trend),
					c.TopSource)
			}
			return w.Flush()
		},
	}
}
