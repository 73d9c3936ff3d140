// Package cmd wires the agentpay commands together. Each command builds its
// chain client and stores from the shared flags, runs one operation from the
// library packages, and renders the result either for humans or as JSON.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentpay/agentpay/networks"
)

var (
	networkFlag string
	jsonFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "agentpay",
	Short: "Send, receive and track stablecoin payments between autonomous agents",
	Long: `agentpay is a command line engine for agent-to-agent payments on EVM testnets.

It sends ERC-20 token transfers, rebuilds recent payment history from event
logs, watches an address for incoming payments, keeps a local contact book,
and shares payment identities as agentpay: URIs and QR codes.

All commands accept --json for machine-readable output, which is how other
agents are expected to drive this tool.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and maps any error to exit code 1, honoring --json
// on the way out so callers can parse failures too.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		failOut(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&networkFlag, "network", "k", networks.DefaultNetworkName,
		fmt.Sprintf("network to operate on. Valid values: %v", networks.Names()))
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false,
		"emit machine-readable JSON instead of human output")
}

// selectedNetwork resolves the --network flag once per command run.
func selectedNetwork() (networks.Network, error) {
	return networks.Get(networkFlag)
}
