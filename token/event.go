package token

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Transfer is one decoded ERC-20 Transfer log.
type Transfer struct {
	TxHash      common.Hash
	BlockNumber uint64
	LogIndex    uint
	From        common.Address
	To          common.Address
	Amount      *big.Int
}

// ParseTransferLog decodes a raw log into a Transfer. The log must carry
// the Transfer event topic with both address positions indexed, which is
// how every EIP-20 token emits it.
func ParseTransferLog(log types.Log) (Transfer, error) {
	if len(log.Topics) != 3 || log.Topics[0] != TransferEventTopic {
		return Transfer{}, fmt.Errorf(
			"log %s[%d] is not an ERC-20 transfer event", log.TxHash.Hex(), log.Index,
		)
	}
	return Transfer{
		TxHash:      log.TxHash,
		BlockNumber: log.BlockNumber,
		LogIndex:    log.Index,
		From:        common.BytesToAddress(log.Topics[1].Bytes()),
		To:          common.BytesToAddress(log.Topics[2].Bytes()),
		Amount:      big.NewInt(0).SetBytes(log.Data),
	}, nil
}
