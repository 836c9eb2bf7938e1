package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/restorer/internal/restoration"
	"github.com/lehigh-university-libraries/restorer/internal/session"
	"github.com/lehigh-university-libraries/restorer/internal/upload"
	"github.com/spf13/cobra"
)

func newRestoreCmd() *cobra.Command {
	var (
		flags  restoreFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "restore <image>",
		Short: "Restore a single photo",
		Long: `Restores one photo with the configured provider and writes the result as PNG.

Without --output the result is written next to the input as
restored-<name>.png.`,
		Example: `  # Colorize a black and white portrait
  restorer restore grandma.jpg --mode colorize --gender female --age 70

  # Use a preference preset and choose the output file
  restorer restore scan.png --mode full-detail --prefs portrait.yaml -o fixed.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			option, prefs, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			service, err := restoration.FromConfig(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			img, err := upload.FromFile(args[0])
			if err != nil {
				return err
			}

			ctrl := session.NewController(service)
			ctrl.Upload(img)
			ctrl.SelectOption(option)
			ctrl.UpdatePreferences(prefs.Update())

			if err := ctrl.Restore(cmd.Context()); err != nil {
				return err
			}

			download, ok := ctrl.Download()
			if !ok {
				return fmt.Errorf("no restored image for %s", args[0])
			}

			if output == "" {
				output = filepath.Join(filepath.Dir(args[0]), download.Filename)
			}
			if err := os.WriteFile(output, download.Data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			slog.Info("Restored photo saved", "input", args[0], "output", output, "option", option)
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output PNG path")

	return cmd
}
