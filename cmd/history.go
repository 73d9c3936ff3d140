package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentpay/agentpay/addr"
	agentcommon "github.com/agentpay/agentpay/common"
	"github.com/agentpay/agentpay/history"
)

var (
	historyAddressFlag string
	historyLimitFlag   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent token transfers touching an address",
	Long: `List recent token transfers sent or received by an address, rebuilt from
on-chain event logs. The scan covers a recent block window, not the full
chain; the scanned range is part of the output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		network, err := selectedNetwork()
		if err != nil {
			return err
		}
		address, err := addr.Parse(historyAddressFlag)
		if err != nil {
			return err
		}

		result, err := history.New(chainClient(network), network).History(address, historyLimitFlag)
		if err != nil {
			return err
		}
		return succeedOut(result, func() {
			fmt.Printf("%s on %s, blocks %d-%d\n",
				result.Address, result.Network, result.FromBlock, result.ToBlock)
			if len(result.Events) == 0 {
				fmt.Println(agentcommon.DimColor("  no transfers in the scanned window"))
				return
			}
			for _, e := range result.Events {
				arrow := "->"
				if e.Direction == history.DirectionIn {
					arrow = "<-"
				}
				when := time.Unix(int64(e.Timestamp), 0).UTC().Format(time.RFC3339)
				fmt.Printf("  %s %s %s %s  %s %s\n",
					when, e.Direction, arrow, e.Counterparty,
					agentcommon.InfoColor(e.Amount), agentcommon.DimColor(e.TxHash))
			}
		})
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyAddressFlag, "address", "", "address to query (required)")
	historyCmd.Flags().IntVar(&historyLimitFlag, "limit", 10, "maximum number of transfers to show")
	historyCmd.MarkFlagRequired("address")
	rootCmd.AddCommand(historyCmd)
}
