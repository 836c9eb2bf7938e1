package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/restorer/internal/batch"
	"github.com/lehigh-university-libraries/restorer/internal/config"
	"github.com/lehigh-university-libraries/restorer/internal/gemini"
	"github.com/lehigh-university-libraries/restorer/internal/openai"
	"github.com/lehigh-university-libraries/restorer/internal/restoration"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	var (
		manifest    string
		report      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Restore every photo listed in a manifest",
		Long: `Restores the photos listed in a JSONL, YAML or Parquet manifest.

Each row names an image, a restoration mode and optional preferences.
Failed rows are recorded in the report and do not stop the run.`,
		Example: `  # Restore a manifest and write a YAML report
  restorer batch --manifest jobs.jsonl --report report.yaml

  # Parquet in, Parquet out, four at a time
  restorer batch --manifest jobs.parquet --report report.parquet --concurrency 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			jobs, err := batch.LoadManifest(manifest)
			if err != nil {
				return err
			}
			service, err := restoration.FromConfig(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			slog.Info("Starting batch restoration", "manifest", manifest, "jobs", len(jobs), "concurrency", concurrency)
			results := batch.NewRunner(service, concurrency).Run(cmd.Context(), jobs)

			rep := batch.Report{
				Config: batch.ReportConfig{
					Provider:  cfg.Provider,
					Model:     modelName(cfg),
					Manifest:  manifest,
					Timestamp: time.Now().Format("2006-01-02_15-04-05"),
				},
				Results: results,
			}
			if report != "" {
				if err := batch.SaveReport(report, rep); err != nil {
					return err
				}
				slog.Info("Report saved", "path", report)
			}

			failed := rep.Failed()
			slog.Info("Batch complete", "restored", len(results)-failed, "failed", failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d photos failed to restore", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&manifest, "manifest", "", "Manifest file (.jsonl, .yaml or .parquet)")
	cmd.Flags().StringVar(&report, "report", "", "Report file (.yaml or .parquet)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 2, "Number of photos to restore at once")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

func modelName(cfg *config.Config) string {
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIModel != "" {
			return cfg.OpenAIModel
		}
		return openai.DefaultModel
	default:
		if cfg.GeminiModel != "" {
			return cfg.GeminiModel
		}
		return gemini.DefaultModel
	}
}
