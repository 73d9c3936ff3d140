package networks

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Network holds the static parameters of one supported chain. A Network is
// immutable after construction: commands look one up from the registry at
// startup and pass it explicitly to every component that needs it.
type Network struct {
	Name               string         `json:"name"`
	AlternativeNames   []string       `json:"alternative_names"`
	ChainID            int64          `json:"chain_id"`
	RPCEndpoint        string         `json:"rpc_endpoint"`
	TokenAddress       common.Address `json:"token_address"`
	ExplorerURL        string         `json:"explorer_url"`
	NativeTokenSymbol  string         `json:"native_token_symbol"`
	NativeTokenDecimal uint64         `json:"native_token_decimal"`
	BlockTime          time.Duration  `json:"block_time"`
}

func (n Network) TxURL(txHash string) string {
	return fmt.Sprintf("%s/tx/%s", n.ExplorerURL, txHash)
}

func (n Network) AddressURL(address string) string {
	return fmt.Sprintf("%s/address/%s", n.ExplorerURL, address)
}

func (n Network) matches(name string) bool {
	if n.Name == name {
		return true
	}
	for _, alt := range n.AlternativeNames {
		if alt == name {
			return true
		}
	}
	return false
}
