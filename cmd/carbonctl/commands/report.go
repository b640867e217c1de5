package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/cloud"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/config"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/report"
)

func NewReportCommand() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Build an emissions report with recommendations",
		Long: `Builds a JSON report from the current snapshot. With --upload the report is
archived to S3 and companies above TAX_ALERT_THRESHOLD trigger an SNS alert.
--list prints the archived report keys, newest first, and --fetch prints an
archived report by key or "latest". Uploading, listing and fetching require
USE_CLOUD_SERVICES=true.`,
		Example: `  carbonctl report --upload
  carbonctl report --list
  carbonctl report --fetch latest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			upload, _ := cmd.Flags().GetBool("upload")
			list, _ := cmd.Flags().GetBool("list")
			fetch, _ := cmd.Flags().GetString("fetch")

			if list || fetch != "" {
				return readArchive(cmd, list, fetch)
			}

			snap, err := loadSnapshot(cmd)
			if err != nil {
				return err
			}
			r := report.Build(snap, config.TaxAlertThreshold(), time.Now())

			if !upload {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			}

			if !config.UseCloudServices() {
				return fmt.Errorf("--upload needs USE_CLOUD_SERVICES=true")
			}
			ctx := cmd.Context()
			s3c, err := cloud.NewS3Client(ctx, config.AWSRegion(), config.S3Bucket())
			if err != nil {
				return err
			}
			var notifier report.Notifier
			if arn := config.SNSTopicArn(); arn != "" {
				snsc, err := cloud.NewSNSClient(ctx, config.AWSRegion(), arn)
				if err != nil {
					return err
				}
				notifier = snsc
			} else {
				log.Warn().Msg("AWS_SNS_TOPIC_ARN not set, tax alerts disabled")
			}

			url, err := report.NewArchiver(s3c, notifier).Archive(ctx, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report uploaded: %s\n", url)
			return nil
		},
	}
	reportCmd.Flags().Bool("upload", false, "archive the report to S3 and send tax alerts")
	reportCmd.Flags().Bool("list", false, "list archived reports in S3")
	reportCmd.Flags().String("fetch", "", `print an archived report by key, or "latest"`)
	reportCmd.MarkFlagsMutuallyExclusive("upload", "list", "fetch")
	return reportCmd
}

func readArchive(cmd *cobra.Command, list bool, key string) error {
	if !config.UseCloudServices() {
		return fmt.Errorf("reading archived reports needs USE_CLOUD_SERVICES=true")
	}
	ctx := cmd.Context()
	s3c, err := cloud.NewS3Client(ctx, config.AWSRegion(), config.S3Bucket())
	if err != nil {
		return err
	}
	history := report.NewHistory(s3c)
	out := cmd.OutOrStdout()

	if list {
		keys, err := history.List(ctx)
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			fmt.Fprintln(out, "no archived reports")
			return nil
		}
		for _, k := range keys {
			fmt.Fprintln(out, k)
		}
		return nil
	}

	r, err := history.Fetch(ctx, key)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
