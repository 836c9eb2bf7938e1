package cmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/restorer/internal/prompt"
	"github.com/spf13/cobra"
)

func newPromptCmd() *cobra.Command {
	var flags restoreFlags

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the restoration prompt without calling the model",
		Example: `  restorer prompt --mode colorize --gender female --age 70 --redraw-hair`,
		RunE: func(cmd *cobra.Command, args []string) error {
			option, prefs, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), prompt.Build(option, prefs))
			return err
		},
	}
	flags.bind(cmd)

	return cmd
}
