// Package networks enumerates the chains agentpay can talk to.
//
// Each supported network is a data entry: RPC endpoint, USDC contract
// address, chain id and explorer base URL. Adding a network means adding an
// entry to the table below, no other code changes.
package networks

import (
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultNetworkName is used by every command when --network is not given.
const DefaultNetworkName = "base-sepolia"

var BaseSepolia = Network{
	Name:               "base-sepolia",
	AlternativeNames:   []string{"base"},
	ChainID:            84532,
	RPCEndpoint:        "https://sepolia.base.org",
	TokenAddress:       common.HexToAddress("0x036CbD53842c5426634e7929541eC2318f3dCF7e"),
	ExplorerURL:        "https://sepolia.basescan.org",
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          2 * time.Second,
}

var EthSepolia = Network{
	Name:               "eth-sepolia",
	AlternativeNames:   []string{"sepolia"},
	ChainID:            11155111,
	RPCEndpoint:        "https://ethereum-sepolia-rpc.publicnode.com",
	TokenAddress:       common.HexToAddress("0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238"),
	ExplorerURL:        "https://sepolia.etherscan.io",
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          12 * time.Second,
}

var supported = []Network{
	BaseSepolia,
	EthSepolia,
}

// Get returns the network registered under name, honoring alternative names.
func Get(name string) (Network, error) {
	for _, n := range supported {
		if n.matches(name) {
			return n, nil
		}
	}
	return Network{}, fmt.Errorf("unknown network: %s, supported networks: %v", name, Names())
}

// Names returns the canonical names of all supported networks, sorted.
func Names() []string {
	result := []string{}
	for _, n := range supported {
		result = append(result, n.Name)
	}
	sort.Strings(result)
	return result
}
