package cmd

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/restorer/internal/config"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restorer",
		Short: "AI photo restoration service and CLI",
		Long: `Restorer brings old photos back to life with a generative image model.

It serves a web interface with a before/after comparison view, and can
restore single images or whole manifests from the command line.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newRestoreCmd())
	cmd.AddCommand(newBatchCmd())
	cmd.AddCommand(newPromptCmd())

	return cmd
}

// loadConfig reads the environment and installs the configured logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(cfg.Logger())
	return cfg, nil
}
