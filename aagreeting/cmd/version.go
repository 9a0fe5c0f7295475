package cmd

import (
	"fmt"

	"github.com/jim-barber-he/aa-greeting/util"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of the tool",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "aa-greeting %s\n", util.Version())
	},
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
