// Package transfer builds, signs, submits and confirms one token transfer.
//
// The pipeline is a straight-line state machine; any step can fail and the
// resulting error records the furthest state reached, so callers can tell
// "nothing was sent" apart from "sent but not yet confirmed".
package transfer

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/agentpay/agentpay/chain"
	agentcommon "github.com/agentpay/agentpay/common"
	"github.com/agentpay/agentpay/networks"
	"github.com/agentpay/agentpay/resolve"
	"github.com/agentpay/agentpay/token"
)

type State string

const (
	StateResolving  State = "resolving"
	StateQuoting    State = "quoting"
	StateBuilding   State = "building"
	StateSigning    State = "signing"
	StateSubmitted  State = "submitted"
	StateConfirming State = "confirming"
	StateConfirmed  State = "confirmed"
	StateReverted   State = "reverted"
)

var (
	ErrInsufficientTokenBalance = errors.New("insufficient token balance")
	ErrInsufficientGasFunds     = errors.New("no native balance to pay gas")

	// ErrConfirmationTimeout means the transaction was submitted but no
	// receipt arrived in time. The transfer may still confirm later:
	// re-query by hash, never resend the funds.
	ErrConfirmationTimeout = errors.New("confirmation timed out")

	// ErrReverted means the transaction was mined but execution failed.
	ErrReverted = errors.New("transaction reverted on chain")
)

// DefaultConfirmTimeout bounds the receipt wait. Generous on purpose:
// inclusion time is up to the chain, not the caller.
const DefaultConfirmTimeout = 5 * time.Minute

// gasLimitMargin scales a gas estimate by 1.2, rounding up.
func gasLimitMargin(estimate uint64) uint64 {
	return (estimate*12 + 9) / 10
}

// Error is a pipeline failure. State is the furthest state reached; TxHash
// is set from StateSubmitted on and is the durable handle for re-querying
// status after an interruption.
type Error struct {
	State  State
	TxHash string
	Err    error
}

func (e *Error) Error() string {
	if e.TxHash != "" {
		return fmt.Sprintf("transfer failed at %s (tx %s): %s", e.State, e.TxHash, e.Err)
	}
	return fmt.Sprintf("transfer failed at %s: %s", e.State, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Backend is the chain surface the pipeline needs. *chain.Client satisfies
// it; tests inject a fake.
type Backend interface {
	NativeBalance(address common.Address) (*big.Int, error)
	PendingNonce(address common.Address) (uint64, error)
	SuggestedGasPrice() (*big.Int, error)
	EstimateGas(msg ethereum.CallMsg) (uint64, error)
	CallContract(msg ethereum.CallMsg) ([]byte, error)
	BroadcastRawTx(tx *types.Transaction) (common.Hash, error)
	WaitForReceipt(txHash common.Hash, timeout time.Duration) (*types.Receipt, error)
}

// Signer owns the private key. The pipeline only ever sees the signed
// transaction coming back.
type Signer interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Recipients produces the destination address; satisfied by
// *resolve.Resolver in either strict or fuzzy mode.
type Recipients interface {
	Resolve(input string) (resolve.Resolved, error)
}

// Request describes one transfer.
type Request struct {
	// To is whatever the user supplied: contact name, handle or address.
	To string
	// Amount is the human decimal amount of the token, e.g. "20.0".
	Amount string
	// GasPriceGwei overrides the node's gas price quote when non-empty.
	GasPriceGwei string
	// ConfirmTimeout caps the receipt wait; zero means
	// DefaultConfirmTimeout.
	ConfirmTimeout time.Duration
}

// Receipt is the result of a confirmed transfer.
type Receipt struct {
	TxHash      string           `json:"tx_hash"`
	From        string           `json:"from"`
	To          string           `json:"to"`
	Recipient   resolve.Resolved `json:"recipient"`
	Amount      string           `json:"amount"`
	AmountMinor *big.Int         `json:"amount_minor_units"`
	BlockNumber uint64           `json:"block"`
	GasUsed     uint64           `json:"gas_used"`
	Status      string           `json:"status"`
	ExplorerURL string           `json:"explorer"`
}

type Pipeline struct {
	client    Backend
	network   networks.Network
	recipient Recipients
	signer    Signer

	// Progress, when set, is called as each state is entered. Used by
	// the CLI to drive its spinner; must not block.
	Progress func(State)
}

func NewPipeline(client Backend, network networks.Network, recipient Recipients, signer Signer) *Pipeline {
	return &Pipeline{
		client:    client,
		network:   network,
		recipient: recipient,
		signer:    signer,
	}
}

func (p *Pipeline) enter(s State) {
	if p.Progress != nil {
		p.Progress(s)
	}
}

func fail(state State, err error) *Error {
	return &Error{State: state, Err: err}
}

// Execute runs the transfer to a terminal state. It blocks until the
// transaction is confirmed, reverted, or the confirmation wait times out.
func (p *Pipeline) Execute(req Request) (*Receipt, error) {
	from := p.signer.Address()

	// Resolving
	p.enter(StateResolving)
	resolved, err := p.recipient.Resolve(req.To)
	if err != nil {
		return nil, fail(StateResolving, err)
	}
	to := common.HexToAddress(resolved.Address)

	// Quoting
	p.enter(StateQuoting)
	decimals, err := token.Decimals(p.client, p.network.TokenAddress)
	if err != nil {
		return nil, fail(StateQuoting, err)
	}
	amountMinor, err := agentcommon.DecimalToMinor(req.Amount, decimals)
	if err != nil {
		return nil, fail(StateQuoting, err)
	}
	balance, err := token.BalanceOf(p.client, p.network.TokenAddress, from)
	if err != nil {
		return nil, fail(StateQuoting, err)
	}
	if balance.Cmp(amountMinor) < 0 {
		return nil, fail(StateQuoting, fmt.Errorf(
			"%w: have %s, need %s",
			ErrInsufficientTokenBalance,
			agentcommon.MinorToDecimal(balance, decimals),
			agentcommon.MinorToDecimal(amountMinor, decimals),
		))
	}
	nativeBalance, err := p.client.NativeBalance(from)
	if err != nil {
		return nil, fail(StateQuoting, err)
	}
	if nativeBalance.Sign() == 0 {
		return nil, fail(StateQuoting, fmt.Errorf(
			"%w: %s balance of %s is zero",
			ErrInsufficientGasFunds, p.network.NativeTokenSymbol, from.Hex(),
		))
	}

	// Building
	p.enter(StateBuilding)
	nonce, err := p.client.PendingNonce(from)
	if err != nil {
		return nil, fail(StateBuilding, err)
	}
	calldata, err := token.PackTransfer(to, amountMinor)
	if err != nil {
		return nil, fail(StateBuilding, err)
	}
	tokenAddress := p.network.TokenAddress
	estimate, err := p.client.EstimateGas(ethereum.CallMsg{
		From: from,
		To:   &tokenAddress,
		Data: calldata,
	})
	if err != nil {
		return nil, fail(StateBuilding, err)
	}
	gasLimit := gasLimitMargin(estimate)

	gasPrice, err := p.gasPrice(req.GasPriceGwei)
	if err != nil {
		return nil, fail(StateBuilding, err)
	}

	// Signing: the key never leaves the signer
	p.enter(StateSigning)
	unsigned := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &tokenAddress,
		Value:    big.NewInt(0),
		Data:     calldata,
	})
	signed, err := p.signer.SignTx(unsigned, big.NewInt(p.network.ChainID))
	if err != nil {
		return nil, fail(StateSigning, err)
	}

	// Submitted
	p.enter(StateSubmitted)
	txHash, err := p.client.BroadcastRawTx(signed)
	if err != nil {
		return nil, fail(StateSubmitted, err)
	}

	// Confirming
	p.enter(StateConfirming)
	confirmTimeout := req.ConfirmTimeout
	if confirmTimeout == 0 {
		confirmTimeout = DefaultConfirmTimeout
	}
	receipt, err := p.client.WaitForReceipt(txHash, confirmTimeout)
	if err != nil {
		if errors.Is(err, chain.ErrRPCTimeout) {
			// the tx may still confirm; hand back the hash, never resend
			err = fmt.Errorf("%w: re-query tx %s, do not resend", ErrConfirmationTimeout, txHash.Hex())
		}
		return nil, &Error{State: StateConfirming, TxHash: txHash.Hex(), Err: err}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &Error{State: StateReverted, TxHash: txHash.Hex(), Err: ErrReverted}
	}

	p.enter(StateConfirmed)
	return &Receipt{
		TxHash:      txHash.Hex(),
		From:        from.Hex(),
		To:          to.Hex(),
		Recipient:   resolved,
		Amount:      agentcommon.MinorToDecimal(amountMinor, decimals),
		AmountMinor: amountMinor,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
		Status:      "confirmed",
		ExplorerURL: p.network.TxURL(txHash.Hex()),
	}, nil
}

func (p *Pipeline) gasPrice(overrideGwei string) (*big.Int, error) {
	if overrideGwei != "" {
		price, err := agentcommon.GweiToWei(overrideGwei)
		if err != nil {
			return nil, fmt.Errorf("bad gas price override: %w", err)
		}
		return price, nil
	}
	return p.client.SuggestedGasPrice()
}
