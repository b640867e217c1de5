package commands

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/dashboard"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/metrics"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/service"
)

func NewCalculateCommand() *cobra.Command {
	calculateCmd := &cobra.Command{
		Use:   "calculate",
		Short: "Estimate emissions and carbon tax from activity amounts",
		Example: `  carbonctl calculate --country DE --line electricity=12000 --line diesel=800
  carbonctl calculate --country KR --timeframe yearly --line coal=5000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			country, _ := cmd.Flags().GetString("country")
			timeframe, _ := cmd.Flags().GetString("timeframe")
			raw, _ := cmd.Flags().GetStringArray("line")

			lines, err := parseLines(raw)
			if err != nil {
				return err
			}
			in := metrics.CalculatorInput{
				CountryCode: strings.ToUpper(country),
				Timeframe:   metrics.Timeframe(timeframe),
				Lines:       lines,
			}

			res, err := calculate(cmd, in)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SOURCE\tAMOUNT\tEMISSIONS\tTAX")
			for _, l := range res.Breakdown {
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\n",
					l.Label, metrics.FormatFloat(l.Amount, 1), l.Unit,
					metrics.FormatFloat(l.Emissions, 3)+" t", metrics.FormatCurrency(l.Tax))
			}
			fmt.Fprintf(w, "TOTAL (%s, %s/t)\t\t%s\t%s\n",
				res.Timeframe, metrics.FormatCurrency(res.CarbonTaxRate),
				metrics.FormatFloat(res.TotalEmissions, 3)+" t", metrics.FormatCurrency(res.TotalTax))
			return w.Flush()
		},
	}
	calculateCmd.Flags().StringP("country", "c", "", "country code whose carbon tax rate applies")
	calculateCmd.Flags().StringP("timeframe", "t", string(metrics.Monthly), "monthly or yearly")
	calculateCmd.Flags().StringArrayP("line", "l", nil, "activity as source=amount, repeatable")
	_ = calculateCmd.MarkFlagRequired("country")
	return calculateCmd
}

// calculate uses the country rates of the API given by --api, or of the
// configured store.
func calculate(cmd *cobra.Command, in metrics.CalculatorInput) (metrics.CalculatorResult, error) {
	ctx := cmd.Context()
	if api, _ := cmd.Flags().GetString("api"); api != "" {
		countries, err := dashboard.NewClient(api, 30*time.Second).Countries(ctx)
		if err != nil {
			return metrics.CalculatorResult{}, err
		}
		return metrics.Calculate(in, countries)
	}

	var res metrics.CalculatorResult
	err := withServices(ctx, func(svcs *service.Services) error {
		var err error
		res, err = svcs.Metrics.Calculate(ctx, in)
		return err
	})
	return res, err
}

func parseLines(raw []string) ([]metrics.ActivityLine, error) {
	lines := make([]metrics.ActivityLine, 0, len(raw))
	for _, r := range raw {
		source, amount, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("line %q: expected source=amount", r)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", r, err)
		}
		lines = append(lines, metrics.ActivityLine{Source: strings.ToLower(strings.TrimSpace(source)), Amount: v})
	}
	return lines, nil
}
