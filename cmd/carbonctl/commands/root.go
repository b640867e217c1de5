package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/config"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/dashboard"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/metrics"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/repository"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/service"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "carbonctl",
		Short: "Inspect carbon emissions, taxes and offsets",
		Long: `carbonctl computes the same metrics as the dashboard from the configured store,
or from a running API when --api is given.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return err
			}
			config.SetupLogging()
			return nil
		},
	}
	root.PersistentFlags().String("api", "", "base URL of a running carbon API (default: read the configured store directly)")

	root.AddCommand(
		NewSummaryCommand(),
		NewTreesCommand(),
		NewCalculateCommand(),
		NewReportCommand(),
	)
	return root
}

// withServices opens the configured store without simulated latency or failure.
func withServices(ctx context.Context, fn func(*service.Services) error) error {
	store, closeStore, err := repository.Open(ctx, config.StoreDriver(), config.DBDSN())
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck
	return fn(service.New(store, service.Simulation{}))
}

func loadSnapshot(cmd *cobra.Command) (metrics.Snapshot, error) {
	ctx := cmd.Context()
	if api, _ := cmd.Flags().GetString("api"); api != "" {
		return dashboard.NewClient(api, 30*time.Second).Snapshot(ctx)
	}

	var snap metrics.Snapshot
	err := withServices(ctx, func(svcs *service.Services) error {
		var err error
		snap, err = svcs.Metrics.Snapshot(ctx)
		return err
	})
	return snap, err
}
