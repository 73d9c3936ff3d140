// Package chain gives typed access to the narrow RPC surface agentpay
// needs: balances, nonces, gas, logs, raw tx broadcast and receipts.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// CallTimeout bounds every single RPC call. Waiting for a receipt is the
// one operation allowed to take longer, see WaitForReceipt.
const CallTimeout = 10 * time.Second

// ReceiptPollInterval is how often WaitForReceipt asks the node again.
const ReceiptPollInterval = 5 * time.Second

// Client talks to one RPC endpoint. The connection is established lazily on
// first use so constructing a Client never touches the network.
type Client struct {
	nodeName string
	nodeURL  string

	mu        sync.Mutex
	rpcClient *rpc.Client
	ethClient *ethclient.Client
}

func NewClient(name, url string) *Client {
	return &Client{
		nodeName: name,
		nodeURL:  url,
	}
}

func (c *Client) NodeName() string { return c.nodeName }
func (c *Client) NodeURL() string  { return c.nodeURL }

func (c *Client) initConnection() error {
	client, err := rpc.Dial(c.nodeURL)
	if err != nil {
		return fmt.Errorf("%w: couldn't connect to %s: %s", ErrRPCUnavailable, c.nodeName, err)
	}
	c.rpcClient = client
	c.ethClient = ethclient.NewClient(client)
	return nil
}

func (c *Client) eth() (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ethClient != nil {
		return c.ethClient, nil
	}
	err := c.initConnection()
	return c.ethClient, err
}

func (c *Client) rpc() (*rpc.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rpcClient != nil {
		return c.rpcClient, nil
	}
	err := c.initConnection()
	return c.rpcClient, err
}

func (c *Client) wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", c.nodeName, classify(err))
}

// NativeBalance returns the fee-paying currency balance of address in wei.
func (c *Client) NativeBalance(address common.Address) (*big.Int, error) {
	ethcli, err := c.eth()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(context.Background(), CallTimeout)
	defer cancel()
	balance, err := ethcli.BalanceAt(timeout, address, nil)
	return balance, c.wrap(err)
}

// PendingNonce returns the next usable nonce for address, pending txs
// included.
func (c *Client) PendingNonce(address common.Address) (uint64, error) {
	ethcli, err := c.eth()
	if err != nil {
		return 0, err
	}
	timeout, cancel := context.WithTimeout(context.Background(), CallTimeout)
	defer cancel()
	nonce, err := ethcli.PendingNonceAt(timeout, address)
	return nonce, c.wrap(err)
}

func (c *Client) SuggestedGasPrice() (*big.Int, error) {
	ethcli, err := c.eth()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(context.Background(), CallTimeout)
	defer cancel()
	price, err := ethcli.SuggestGasPrice(timeout)
	return price, c.wrap(err)
}

func (c *Client) EstimateGas(msg ethereum.CallMsg) (uint64, error) {
	ethcli, err := c.eth()
	if err != nil {
		return 0, err
	}
	timeout, cancel := context.WithTimeout(context.Background(), CallTimeout)
	defer cancel()
	gas, err := ethcli.EstimateGas(timeout, msg)
	return gas, c.wrap(err)
}

// CallContract performs a read-only eth_call against the latest block.
func (c *Client) CallContract(msg ethereum.CallMsg) ([]byte, error) {
	ethcli, err := c.eth()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(context.Background(), CallTimeout)
	defer cancel()
	output, err := ethcli.CallContract(timeout, msg, nil)
	return output, c.wrap(err)
}

// FilterLogs queries contract logs in [fromBlock, toBlock] matching topics.
// Topic positions follow the eth_getLogs convention: nil entries match any
// value at that position.
func (c *Client) FilterLogs(fromBlock, toBlock uint64, contract common.Address, topics [][]common.Hash) ([]types.Log, error) {
	ethcli, err := c.eth()
	if err != nil {
		return nil, err
	}
	q := ethereum.FilterQuery{
		FromBlock: big.NewInt(0).SetUint64(fromBlock),
		ToBlock:   big.NewInt(0).SetUint64(toBlock),
		Addresses: []common.Address{contract},
		Topics:    topics,
	}
	timeout, cancel := context.WithTimeout(context.Background(), CallTimeout)
	defer cancel()
	logs, err := ethcli.FilterLogs(timeout, q)
	return logs, c.wrap(err)
}

func (c *Client) HeaderByNumber(number uint64) (*types.Header, error) {
	ethcli, err := c.eth()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(context.Background(), CallTimeout)
	defer cancel()
	header, err := ethcli.HeaderByNumber(timeout, big.NewInt(0).SetUint64(number))
	return header, c.wrap(err)
}

func (c *Client) CurrentBlock() (uint64, error) {
	ethcli, err := c.eth()
	if err != nil {
		return 0, err
	}
	timeout, cancel := context.WithTimeout(context.Background(), CallTimeout)
	defer cancel()
	header, err := ethcli.HeaderByNumber(timeout, nil)
	if err != nil {
		return 0, c.wrap(err)
	}
	return header.Number.Uint64(), nil
}

// BroadcastRawTx submits a signed transaction and returns its hash. The
// hash is derived locally so it is available even if the node's response is
// lost: it is the durable handle to re-query status with after a crash.
func (c *Client) BroadcastRawTx(tx *types.Transaction) (common.Hash, error) {
	data, err := tx.MarshalBinary()
	if err != nil {
		return common.Hash{}, fmt.Errorf("tx is not valid, couldn't rlp-encode it: %w", err)
	}
	cli, err := c.rpc()
	if err != nil {
		return common.Hash{}, err
	}
	timeout, cancel := context.WithTimeout(context.Background(), CallTimeout)
	defer cancel()
	err = cli.CallContext(timeout, nil, "eth_sendRawTransaction", hexutil.Encode(data))
	return tx.Hash(), c.wrap(err)
}

// WaitForReceipt polls until the transaction is mined or timeout elapses.
// Confirmation is not bounded by the caller, so timeouts here should be
// generous, on the order of minutes. On timeout the error wraps
// ErrRPCTimeout; the transaction may still confirm later.
func (c *Client) WaitForReceipt(txHash common.Hash, timeout time.Duration) (*types.Receipt, error) {
	ethcli, err := c.eth()
	if err != nil {
		return nil, err
	}
	deadline := time.Now().Add(timeout)
	for {
		callCtx, cancel := context.WithTimeout(context.Background(), CallTimeout)
		receipt, err := ethcli.TransactionReceipt(callCtx, txHash)
		cancel()
		if err == nil {
			return receipt, nil
		}
		if err != ethereum.NotFound {
			// connectivity trouble is retried until the deadline,
			// everything else aborts the wait
			classified := classify(err)
			if !errors.Is(classified, ErrRPCUnavailable) && !errors.Is(classified, ErrRPCTimeout) {
				return nil, c.wrap(err)
			}
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf(
				"%s: %w: no receipt for %s after %s",
				c.nodeName, ErrRPCTimeout, txHash.Hex(), timeout,
			)
		}
		time.Sleep(ReceiptPollInterval)
	}
}
