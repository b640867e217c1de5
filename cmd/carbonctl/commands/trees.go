package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/metrics"
)

func NewTreesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "trees <tons>",
		Short: "Show how many trees absorb the given tons of CO2 in a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tons, err := metrics.ParseTons(args[0])
			if err != nil {
				return fmt.Errorf("%q: %w", args[0], err)
			}
			o := metrics.OffsetFor(tons)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s needs %s trees (%s acres of forest)\n",
				metrics.FormatTons(o.Tons), metrics.FormatNumber(o.Trees), metrics.FormatNumber(o.ForestAcres))
			eq := o.Equivalencies
			for _, row := range []struct {
				label string
				value int64
			}{
				{"miles driven", eq.MilesDriven},
				{"flight hours", eq.FlightHours},
				{"months of home energy", eq.HomeEnergyMonths},
				{"CO2 absorbed (lbs)", eq.CO2AbsorbedLbs},
				{"oxygen produced (lbs)", eq.OxygenLbs},
				{"pollutants filtered (lbs)", eq.AirPollutantsLbs},
				{"water filtered (gal)", eq.WaterGallons},
			} {
				fmt.Fprintf(out, "  %-27s %s\n", row.label+":", metrics.FormatNumber(row.value))
			}
			return nil
		},
	}
}
