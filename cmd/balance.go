package cmd

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/agentpay/agentpay/addr"
	"github.com/agentpay/agentpay/chain"
	agentcommon "github.com/agentpay/agentpay/common"
	"github.com/agentpay/agentpay/networks"
	"github.com/agentpay/agentpay/token"
)

var balanceAddressFlag string

type balanceResult struct {
	Address       string   `json:"address"`
	Network       string   `json:"network"`
	Token         string   `json:"token"`
	Balance       string   `json:"balance"`
	BalanceMinor  *big.Int `json:"balance_minor_units"`
	NativeSymbol  string   `json:"native_symbol"`
	NativeBalance string   `json:"native_balance"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the token and native balances of an address",
	RunE: func(cmd *cobra.Command, args []string) error {
		network, err := selectedNetwork()
		if err != nil {
			return err
		}
		address, err := addr.Parse(balanceAddressFlag)
		if err != nil {
			return err
		}
		client := chainClient(network)

		tokenBalance, err := token.BalanceOf(client, network.TokenAddress, address)
		if err != nil {
			return err
		}
		decimals, err := token.Decimals(client, network.TokenAddress)
		if err != nil {
			return err
		}
		symbol, err := token.Symbol(client, network.TokenAddress)
		if err != nil {
			return err
		}
		nativeBalance, err := client.NativeBalance(address)
		if err != nil {
			return err
		}

		result := balanceResult{
			Address:       address.Hex(),
			Network:       network.Name,
			Token:         symbol,
			Balance:       agentcommon.MinorToDecimal(tokenBalance, decimals),
			BalanceMinor:  tokenBalance,
			NativeSymbol:  network.NativeTokenSymbol,
			NativeBalance: agentcommon.MinorToDecimal(nativeBalance, uint8(network.NativeTokenDecimal)),
		}
		return succeedOut(result, func() {
			fmt.Printf("%s on %s\n", result.Address, result.Network)
			fmt.Printf("  %s %s\n", agentcommon.InfoColor(result.Balance), result.Token)
			fmt.Printf("  %s %s %s\n", result.NativeBalance, result.NativeSymbol,
				agentcommon.DimColor("(gas)"))
		})
	},
}

func chainClient(network networks.Network) *chain.Client {
	return chain.NewClient(network.Name, network.RPCEndpoint)
}

func init() {
	balanceCmd.Flags().StringVar(&balanceAddressFlag, "address", "", "address to query (required)")
	balanceCmd.MarkFlagRequired("address")
	rootCmd.AddCommand(balanceCmd)
}
