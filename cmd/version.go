package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const VERSION = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show agentpay version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return succeedOut(map[string]any{"version": VERSION}, func() {
			fmt.Printf("agentpay %s\n", VERSION)
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
