package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	agentcommon "github.com/agentpay/agentpay/common"
	"github.com/agentpay/agentpay/wallet"
)

var walletOutFlag string

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage agent signing keys",
}

var walletNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a fresh agent keypair",
	Long: `Generate a fresh keypair and write it to a key file readable only by the
current user. Fund the printed address with testnet tokens before sending.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := wallet.Generate()
		if err != nil {
			return err
		}
		if err := key.SaveTo(walletOutFlag); err != nil {
			return err
		}
		result := map[string]any{
			"address":  key.Address().Hex(),
			"key_file": walletOutFlag,
		}
		return succeedOut(result, func() {
			fmt.Printf("new agent identity %s\n", agentcommon.InfoColor(key.Address().Hex()))
			fmt.Printf("key written to %s\n", walletOutFlag)
			fmt.Println(agentcommon.AlertColor("anyone holding the key file controls the funds"))
		})
	},
}

func init() {
	walletNewCmd.Flags().StringVar(&walletOutFlag, "out", "agent-key.json", "where to write the key file")
	walletCmd.AddCommand(walletNewCmd)
	rootCmd.AddCommand(walletCmd)
}
