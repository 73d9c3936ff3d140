// Package monitor watches an address for incoming token transfers and fans
// each new payment out to a set of notifiers.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	agentcommon "github.com/agentpay/agentpay/common"
	"github.com/agentpay/agentpay/networks"
	"github.com/agentpay/agentpay/token"
)

// DefaultInterval is the polling cadence. One poll per testnet block-ish is
// enough for payment notification latency.
const DefaultInterval = 15 * time.Second

// seenRetention is how many blocks a tx hash stays in the dedup set before
// eviction. Anything older can no longer reappear from a log query.
const seenRetention = 1000

// Payment is one incoming transfer, decoded and ready for display.
type Payment struct {
	TxHash      string   `json:"tx_hash"`
	BlockNumber uint64   `json:"block"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Amount      string   `json:"amount"`
	AmountMinor *big.Int `json:"amount_minor_units"`
	Token       string   `json:"token"`
	Network     string   `json:"network"`
	ExplorerURL string   `json:"explorer"`
}

// Notifier delivers one payment somewhere. Delivery failures are logged and
// dropped; they never stall the scan loop.
type Notifier interface {
	Notify(p Payment) error
}

// Source is the chain surface the monitor polls. *chain.Client satisfies it.
type Source interface {
	CurrentBlock() (uint64, error)
	FilterLogs(fromBlock, toBlock uint64, contract common.Address, topics [][]common.Hash) ([]types.Log, error)
	CallContract(msg ethereum.CallMsg) ([]byte, error)
}

type Monitor struct {
	client    Source
	network   networks.Network
	address   common.Address
	interval  time.Duration
	notifiers []Notifier
	logger    *slog.Logger

	// lastScanned advances only after a whole batch of logs has been
	// processed, so a failed tick is re-scanned in full on the next one.
	lastScanned uint64
	seen        map[common.Hash]uint64
}

func New(client Source, network networks.Network, address common.Address, interval time.Duration, logger *slog.Logger, notifiers ...Notifier) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		client:    client,
		network:   network,
		address:   address,
		interval:  interval,
		notifiers: notifiers,
		logger:    logger,
		seen:      map[common.Hash]uint64{},
	}
}

// Run polls until ctx is cancelled and returns nil on that clean shutdown.
// Only payments arriving after the start are reported; the backlog belongs
// to the history command.
func (m *Monitor) Run(ctx context.Context) error {
	current, err := m.client.CurrentBlock()
	if err != nil {
		return fmt.Errorf("couldn't read the chain head: %w", err)
	}
	m.lastScanned = current
	m.logger.Info("watching for incoming payments",
		"address", m.address.Hex(),
		"network", m.network.Name,
		"from_block", current+1,
	)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := m.scan(); err != nil {
				// transient by assumption, the next tick rescans
				m.logger.Warn("scan failed, will retry", "err", err)
			}
		}
	}
}

func (m *Monitor) scan() error {
	current, err := m.client.CurrentBlock()
	if err != nil {
		return err
	}
	if current <= m.lastScanned {
		return nil
	}

	logs, err := m.client.FilterLogs(m.lastScanned+1, current, m.network.TokenAddress, [][]common.Hash{
		{token.TransferEventTopic},
		nil,
		{token.AddressTopic(m.address)},
	})
	if err != nil {
		return err
	}

	// metadata is fetched before anything is marked seen: if these reads
	// fail the whole tick aborts and the next one re-covers the range
	var decimals uint8
	var symbol string
	if len(logs) > 0 {
		if decimals, err = token.Decimals(m.client, m.network.TokenAddress); err != nil {
			return err
		}
		if symbol, err = token.Symbol(m.client, m.network.TokenAddress); err != nil {
			return err
		}
	}

	for _, log := range logs {
		transfer, err := token.ParseTransferLog(log)
		if err != nil {
			m.logger.Warn("skipping undecodable log", "tx", log.TxHash.Hex(), "err", err)
			continue
		}
		if _, dup := m.seen[transfer.TxHash]; dup {
			continue
		}

		payment := m.payment(transfer, decimals, symbol)
		for _, n := range m.notifiers {
			if err := n.Notify(payment); err != nil {
				m.logger.Warn("notifier failed", "tx", payment.TxHash, "err", err)
			}
		}
		// marked seen only after the fan-out, so an aborted tick never
		// swallows a payment it did not deliver
		m.seen[transfer.TxHash] = transfer.BlockNumber
		m.logger.Info("payment received",
			"tx", payment.TxHash,
			"from", payment.From,
			"amount", payment.Amount,
			"token", payment.Token,
		)
	}

	m.evict(current)
	m.lastScanned = current
	return nil
}

func (m *Monitor) payment(transfer token.Transfer, decimals uint8, symbol string) Payment {
	return Payment{
		TxHash:      transfer.TxHash.Hex(),
		BlockNumber: transfer.BlockNumber,
		From:        transfer.From.Hex(),
		To:          transfer.To.Hex(),
		Amount:      agentcommon.MinorToDecimal(transfer.Amount, decimals),
		AmountMinor: transfer.Amount,
		Token:       symbol,
		Network:     m.network.Name,
		ExplorerURL: m.network.TxURL(transfer.TxHash.Hex()),
	}
}

// evict drops dedup entries too old to ever come back from a scan.
func (m *Monitor) evict(current uint64) {
	if current < seenRetention {
		return
	}
	horizon := current - seenRetention
	for hash, block := range m.seen {
		if block < horizon {
			delete(m.seen, hash)
		}
	}
}
