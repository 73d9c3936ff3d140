// Package history rebuilds an address's recent token transfer history from
// event logs.
//
// The scan is bounded to a recent block window, not the full chain. That is
// a deliberate completeness trade-off for indexer-free operation; results
// carry the scanned range so callers can surface it.
package history

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	agentcommon "github.com/agentpay/agentpay/common"
	"github.com/agentpay/agentpay/networks"
	"github.com/agentpay/agentpay/token"
)

// ScanWindow is how many blocks back from the head a history query looks.
const ScanWindow = 1000

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// TransferEvent is one decoded transfer touching the queried address.
// Direction and Counterparty are relative to that address. A self-transfer
// produces two events for the same tx hash, one in and one out; that is
// documented behavior, not a bug.
type TransferEvent struct {
	TxHash       string    `json:"hash"`
	BlockNumber  uint64    `json:"block"`
	Timestamp    uint64    `json:"timestamp"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	Amount       string    `json:"amount"`
	AmountMinor  *big.Int  `json:"amount_minor_units"`
	Direction    Direction `json:"direction"`
	Counterparty string    `json:"counterparty"`

	logIndex uint
}

// Result is a history query answer, most recent event first.
type Result struct {
	Address   string          `json:"address"`
	Network   string          `json:"network"`
	FromBlock uint64          `json:"from_block"`
	ToBlock   uint64          `json:"to_block"`
	Events    []TransferEvent `json:"transactions"`
}

// Source is the chain surface a history scan needs. *chain.Client
// satisfies it.
type Source interface {
	CurrentBlock() (uint64, error)
	FilterLogs(fromBlock, toBlock uint64, contract common.Address, topics [][]common.Hash) ([]types.Log, error)
	HeaderByNumber(number uint64) (*types.Header, error)
	CallContract(msg ethereum.CallMsg) ([]byte, error)
}

type Reconstructor struct {
	client  Source
	network networks.Network
}

func New(client Source, network networks.Network) *Reconstructor {
	return &Reconstructor{
		client:  client,
		network: network,
	}
}

// History scans the recent window for transfers from and to address and
// returns up to limit events, newest first. Truncation happens after
// sorting, so a small limit always keeps the most recent entries.
func (r *Reconstructor) History(address common.Address, limit int) (*Result, error) {
	current, err := r.client.CurrentBlock()
	if err != nil {
		return nil, err
	}
	fromBlock := uint64(0)
	if current > ScanWindow {
		fromBlock = current - ScanWindow
	}

	addressTopic := token.AddressTopic(address)
	sent, err := r.client.FilterLogs(fromBlock, current, r.network.TokenAddress, [][]common.Hash{
		{token.TransferEventTopic},
		{addressTopic},
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't query outgoing transfer logs: %w", err)
	}
	received, err := r.client.FilterLogs(fromBlock, current, r.network.TokenAddress, [][]common.Hash{
		{token.TransferEventTopic},
		nil,
		{addressTopic},
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't query incoming transfer logs: %w", err)
	}

	decimals, err := token.Decimals(r.client, r.network.TokenAddress)
	if err != nil {
		return nil, err
	}

	// the two log sets are concatenated, not deduplicated: a self-transfer
	// legitimately shows up once per direction. Direction comes from the
	// query that produced the log, not from its contents, because for a
	// self-transfer the contents alone can't tell the two copies apart.
	events := []TransferEvent{}
	timestamps := map[uint64]uint64{}
	for _, tagged := range []struct {
		logs      []types.Log
		direction Direction
	}{
		{sent, DirectionOut},
		{received, DirectionIn},
	} {
		for _, log := range tagged.logs {
			transfer, err := token.ParseTransferLog(log)
			if err != nil {
				continue
			}
			timestamp, err := r.blockTimestamp(transfer.BlockNumber, timestamps)
			if err != nil {
				return nil, err
			}
			events = append(events, newEvent(transfer, tagged.direction, timestamp, decimals))
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].BlockNumber != events[j].BlockNumber {
			return events[i].BlockNumber > events[j].BlockNumber
		}
		return events[i].logIndex < events[j].logIndex
	})
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}

	return &Result{
		Address:   address.Hex(),
		Network:   r.network.Name,
		FromBlock: fromBlock,
		ToBlock:   current,
		Events:    events,
	}, nil
}

// blockTimestamp memoizes header lookups per scan: a block with several
// relevant events costs one RPC call, not one per event.
func (r *Reconstructor) blockTimestamp(number uint64, cache map[uint64]uint64) (uint64, error) {
	if timestamp, found := cache[number]; found {
		return timestamp, nil
	}
	header, err := r.client.HeaderByNumber(number)
	if err != nil {
		return 0, fmt.Errorf("couldn't read block %d: %w", number, err)
	}
	cache[number] = header.Time
	return header.Time, nil
}

func newEvent(transfer token.Transfer, direction Direction, timestamp uint64, decimals uint8) TransferEvent {
	counterparty := transfer.To
	if direction == DirectionIn {
		counterparty = transfer.From
	}
	return TransferEvent{
		TxHash:       transfer.TxHash.Hex(),
		BlockNumber:  transfer.BlockNumber,
		Timestamp:    timestamp,
		From:         transfer.From.Hex(),
		To:           transfer.To.Hex(),
		Amount:       agentcommon.MinorToDecimal(transfer.Amount, decimals),
		AmountMinor:  transfer.Amount,
		Direction:    direction,
		Counterparty: counterparty.Hex(),
		logIndex:     transfer.LogIndex,
	}
}
