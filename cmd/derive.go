package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/agentpay/agentpay/addr"
	agentcommon "github.com/agentpay/agentpay/common"
)

var (
	deriveFactoryFlag  string
	deriveSaltFlag     string
	deriveInitHashFlag string
)

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive a deterministic contract address before deployment",
	Long: `Derive the address a factory contract will deploy to for a given salt and
init code hash. Pure computation, no chain access; the same inputs always
produce the same address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		factory, err := addr.Parse(deriveFactoryFlag)
		if err != nil {
			return fmt.Errorf("bad factory address: %w", err)
		}
		salt, err := parse32Bytes(deriveSaltFlag)
		if err != nil {
			return fmt.Errorf("bad salt: %w", err)
		}
		initCodeHash, err := parse32Bytes(deriveInitHashFlag)
		if err != nil {
			return fmt.Errorf("bad init code hash: %w", err)
		}

		derived := addr.DeriveDeterministicAddress(factory, salt, initCodeHash)
		result := map[string]any{
			"address":        derived.Hex(),
			"factory":        factory.Hex(),
			"salt":           common.Hash(salt).Hex(),
			"init_code_hash": common.Hash(initCodeHash).Hex(),
		}
		return succeedOut(result, func() {
			fmt.Println(agentcommon.InfoColor(derived.Hex()))
		})
	},
}

func parse32Bytes(raw string) ([32]byte, error) {
	decoded, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
	if err != nil {
		return [32]byte{}, err
	}
	if len(decoded) != 32 {
		return [32]byte{}, fmt.Errorf("want 32 bytes, got %d", len(decoded))
	}
	var out [32]byte
	copy(out[:], decoded)
	return out, nil
}

func init() {
	deriveCmd.Flags().StringVar(&deriveFactoryFlag, "factory", "", "factory contract address (required)")
	deriveCmd.Flags().StringVar(&deriveSaltFlag, "salt", "", "32-byte salt as hex (required)")
	deriveCmd.Flags().StringVar(&deriveInitHashFlag, "init-code-hash", "", "keccak256 of the contract init code as hex (required)")
	deriveCmd.MarkFlagRequired("factory")
	deriveCmd.MarkFlagRequired("salt")
	deriveCmd.MarkFlagRequired("init-code-hash")
	rootCmd.AddCommand(deriveCmd)
}
