// Package token wraps the minimal ERC-20 surface agentpay uses: metadata
// reads, balance reads, transfer calldata and transfer event decoding.
package token

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// The subset of the EIP-20 ABI we actually call.
const erc20abi = `[
	{
		"constant": true,
		"inputs": [],
		"name": "name",
		"outputs": [{"name": "", "type": "string"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "symbol",
		"outputs": [{"name": "", "type": "string"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "decimals",
		"outputs": [{"name": "", "type": "uint8"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "_owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "balance", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "_to", "type": "address"},
			{"name": "_value", "type": "uint256"}
		],
		"name": "transfer",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "from", "type": "address"},
			{"indexed": true, "name": "to", "type": "address"},
			{"indexed": false, "name": "value", "type": "uint256"}
		],
		"name": "Transfer",
		"type": "event"
	}
]`

var parsedABI abi.ABI

// TransferEventTopic is keccak256("Transfer(address,address,uint256)"), the
// first topic of every ERC-20 transfer log.
var TransferEventTopic common.Hash

func init() {
	var err error
	parsedABI, err = abi.JSON(strings.NewReader(erc20abi))
	if err != nil {
		panic(err)
	}
	TransferEventTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
}

// ABI returns the parsed minimal ERC-20 ABI.
func ABI() *abi.ABI {
	return &parsedABI
}

// AddressTopic left-pads an address to the 32-byte form used in indexed
// event topic positions.
func AddressTopic(address common.Address) common.Hash {
	return common.BytesToHash(common.LeftPadBytes(address.Bytes(), 32))
}
